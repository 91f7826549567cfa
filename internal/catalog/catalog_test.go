package catalog

import (
	"reflect"
	"testing"
)

func TestEntriesRestoreOrder(t *testing.T) {
	// Referenced types restore before the types that reference them:
	// lists before policies, feature templates before device templates.
	want := []string{
		"policy_list_site",
		"policy_list_vpn",
		"policy_vedge",
		"policy_vsmart",
		"template_feature",
		"template_device",
	}
	if got := Tags(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tags = %v, want %v", got, want)
	}
}

func TestByTag(t *testing.T) {
	entry, ok := ByTag("template_device")
	if !ok {
		t.Fatal("ByTag(template_device) not found")
	}
	if entry.Item != DeviceTemplate || entry.Index != DeviceTemplateIndex {
		t.Error("ByTag(template_device) returned wrong descriptors")
	}

	if _, ok := ByTag("no_such_tag"); ok {
		t.Error("ByTag accepted unknown tag")
	}
}

func TestDescriptorsWellFormed(t *testing.T) {
	for _, entry := range Entries() {
		t.Run(entry.Tag, func(t *testing.T) {
			if entry.Item.IDField == "" || entry.Item.NameField == "" {
				t.Error("item descriptor missing id/name projection")
			}
			if entry.Index.IterIDName == nil {
				t.Error("index descriptor missing id/name iteration fields")
			}
			if entry.Index.IterIDName.ID != entry.Item.IDField {
				t.Errorf("index id field %q != item id field %q",
					entry.Index.IterIDName.ID, entry.Item.IDField)
			}
			if entry.Item.Path.Get == "" || entry.Item.Path.Post == "" {
				t.Error("item descriptor missing API paths")
			}
			if len(entry.Item.StoreSegments) == 0 || entry.Item.StoreFile == "" {
				t.Error("item descriptor missing store location")
			}
		})
	}
}

func TestDeviceTemplateFetchUsesObjectPath(t *testing.T) {
	// Device template payloads come from the object endpoint while
	// creation posts to the feature endpoint.
	if DeviceTemplate.Path.Get != "template/device/object" {
		t.Errorf("Get path = %q", DeviceTemplate.Path.Get)
	}
	if DeviceTemplate.Path.Post != "template/device/feature" {
		t.Errorf("Post path = %q", DeviceTemplate.Path.Post)
	}
	if DeviceTemplate.Path.Put != "template/device" {
		t.Errorf("Put path = %q", DeviceTemplate.Path.Put)
	}
}
