// Package catalog defines the controller item types sdwan-vault knows
// how to back up and restore. Each type is a pair of descriptors, one
// for the item listing and one for individual items; all behavior is
// driven by the descriptor values in internal/models.
package catalog

import "github.com/tpimenta/sdwan-vault/internal/models"

// DeviceTemplate is a vManage device template.
var DeviceTemplate = &models.Descriptor{
	TypeName:      "device_template",
	Path:          models.NewApiPath("template/device/object", "template/device/feature", "template/device", "template/device"),
	IDField:       "templateId",
	NameField:     "templateName",
	StoreSegments: []string{"device_templates", "template"},
	StoreFile:     "{item_name}.json",
	SkipCompare:   []string{"createdOn", "createdBy", "lastUpdatedOn", "lastUpdatedBy", "devicesAttached", "templateAttached"},
}

// DeviceTemplateIndex lists device templates.
var DeviceTemplateIndex = &models.Descriptor{
	TypeName:       "device_template_index",
	Path:           models.NewApiPath("template/device"),
	StoreSegments:  []string{"inventory"},
	StoreFile:      "device_template_list.json",
	IterIDName:     &models.IdName{ID: "templateId", Name: "templateName"},
	ExtendedFields: []string{"deviceType", "devicesAttached"},
}

// FeatureTemplate is a vManage feature template.
var FeatureTemplate = &models.Descriptor{
	TypeName:      "feature_template",
	Path:          models.NewApiPath("template/feature/object", "template/feature"),
	IDField:       "templateId",
	NameField:     "templateName",
	TypeField:     "templateType",
	StoreSegments: []string{"feature_templates"},
	StoreFile:     "{item_name}.json",
	SkipCompare:   []string{"createdOn", "createdBy", "lastUpdatedOn", "lastUpdatedBy", "attachedMastersCount", "devicesAttached"},
	CreateExclude: []string{"editedTemplateDefinition"},
}

// FeatureTemplateIndex lists feature templates.
var FeatureTemplateIndex = &models.Descriptor{
	TypeName:       "feature_template_index",
	Path:           models.NewApiPath("template/feature"),
	StoreSegments:  []string{"inventory"},
	StoreFile:      "feature_template_list.json",
	IterIDName:     &models.IdName{ID: "templateId", Name: "templateName"},
	ExtendedFields: []string{"templateType", "factoryDefault"},
}

// VsmartPolicy is a centralized (vSmart) policy.
var VsmartPolicy = &models.Descriptor{
	TypeName:      "vsmart_policy",
	Path:          models.NewApiPath("template/policy/vsmart/definition", "template/policy/vsmart"),
	IDField:       "policyId",
	NameField:     "policyName",
	TypeField:     "policyType",
	StoreSegments: []string{"policy_templates", "vsmart"},
	StoreFile:     "{item_name}.json",
	SkipCompare:   []string{"createdOn", "createdBy", "lastUpdatedOn", "lastUpdatedBy", "isPolicyActivated"},
}

// VsmartPolicyIndex lists centralized policies.
var VsmartPolicyIndex = &models.Descriptor{
	TypeName:       "vsmart_policy_index",
	Path:           models.NewApiPath("template/policy/vsmart"),
	StoreSegments:  []string{"inventory"},
	StoreFile:      "vsmart_policy_list.json",
	IterIDName:     &models.IdName{ID: "policyId", Name: "policyName"},
	ExtendedFields: []string{"policyType", "isPolicyActivated"},
}

// VedgePolicy is a localized (vEdge) policy.
var VedgePolicy = &models.Descriptor{
	TypeName:      "vedge_policy",
	Path:          models.NewApiPath("template/policy/vedge/definition", "template/policy/vedge"),
	IDField:       "policyId",
	NameField:     "policyName",
	TypeField:     "policyType",
	StoreSegments: []string{"policy_templates", "vedge"},
	StoreFile:     "{item_name}.json",
	SkipCompare:   []string{"createdOn", "createdBy", "lastUpdatedOn", "lastUpdatedBy"},
}

// VedgePolicyIndex lists localized policies.
var VedgePolicyIndex = &models.Descriptor{
	TypeName:      "vedge_policy_index",
	Path:          models.NewApiPath("template/policy/vedge"),
	StoreSegments: []string{"inventory"},
	StoreFile:     "vedge_policy_list.json",
	IterIDName:    &models.IdName{ID: "policyId", Name: "policyName"},
}

// SiteList is a policy site list.
var SiteList = &models.Descriptor{
	TypeName:      "policy_list_site",
	Path:          models.NewApiPath("policy/list/site"),
	IDField:       "listId",
	NameField:     "name",
	TypeField:     "type",
	StoreSegments: []string{"policy_lists", "site"},
	StoreFile:     "{item_name}.json",
	SkipCompare:   []string{"lastUpdated", "referenceCount", "references", "activatedId", "isActivatedByVsmart"},
}

// SiteListIndex lists policy site lists.
var SiteListIndex = &models.Descriptor{
	TypeName:      "policy_list_site_index",
	Path:          models.NewApiPath("policy/list/site"),
	StoreSegments: []string{"inventory"},
	StoreFile:     "policy_list_site_list.json",
	IterIDName:    &models.IdName{ID: "listId", Name: "name"},
}

// VpnList is a policy VPN list.
var VpnList = &models.Descriptor{
	TypeName:      "policy_list_vpn",
	Path:          models.NewApiPath("policy/list/vpn"),
	IDField:       "listId",
	NameField:     "name",
	TypeField:     "type",
	StoreSegments: []string{"policy_lists", "vpn"},
	StoreFile:     "{item_name}.json",
	SkipCompare:   []string{"lastUpdated", "referenceCount", "references", "activatedId", "isActivatedByVsmart"},
}

// VpnListIndex lists policy VPN lists.
var VpnListIndex = &models.Descriptor{
	TypeName:      "policy_list_vpn_index",
	Path:          models.NewApiPath("policy/list/vpn"),
	StoreSegments: []string{"inventory"},
	StoreFile:     "policy_list_vpn_list.json",
	IterIDName:    &models.IdName{ID: "listId", Name: "name"},
}

// Entry pairs the index and item descriptors of one catalog type.
type Entry struct {
	Tag   string // short tag used on the CLI, e.g. "template_device"
	Index *models.Descriptor
	Item  *models.Descriptor
}

// Entries returns the catalog in restore order: items referenced by
// other items come first, so id mappings accumulated while restoring
// earlier types resolve references in later ones.
func Entries() []Entry {
	return []Entry{
		{Tag: "policy_list_site", Index: SiteListIndex, Item: SiteList},
		{Tag: "policy_list_vpn", Index: VpnListIndex, Item: VpnList},
		{Tag: "policy_vedge", Index: VedgePolicyIndex, Item: VedgePolicy},
		{Tag: "policy_vsmart", Index: VsmartPolicyIndex, Item: VsmartPolicy},
		{Tag: "template_feature", Index: FeatureTemplateIndex, Item: FeatureTemplate},
		{Tag: "template_device", Index: DeviceTemplateIndex, Item: DeviceTemplate},
	}
}

// ByTag returns the catalog entry with the given tag.
func ByTag(tag string) (Entry, bool) {
	for _, entry := range Entries() {
		if entry.Tag == tag {
			return entry, true
		}
	}
	return Entry{}, false
}

// Tags returns the known catalog tags, in restore order.
func Tags() []string {
	entries := Entries()
	tags := make([]string, len(entries))
	for i, entry := range entries {
		tags[i] = entry.Tag
	}
	return tags
}
