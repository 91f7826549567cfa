package models

// ApiPath groups the controller URL paths for the operations available
// on an API item. Verbs left unspecified at construction fall back to
// the closest previously specified one: get defaults all of them, and
// each later verb defaults to the last one provided before it.
type ApiPath struct {
	Get    string
	Post   string
	Put    string
	Delete string
}

// NewApiPath builds an ApiPath from a get path and up to three more
// paths in post, put, delete order.
func NewApiPath(get string, other ...string) ApiPath {
	p := ApiPath{Get: get}
	last := get
	if len(other) > 0 {
		last = other[len(other)-1]
	}
	verbs := []*string{&p.Post, &p.Put, &p.Delete}
	for i, verb := range verbs {
		if i < len(other) {
			*verb = other[i]
		} else {
			*verb = last
		}
	}
	return p
}
