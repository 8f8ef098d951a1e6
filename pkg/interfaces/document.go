package interfaces

// HTMLDocument is the read-only DOM capability the page parser needs.
// Selectors are CSS selectors; implementations decide which parser backs them.
type HTMLDocument interface {
	QueryAll(selector string) []HTMLElement
	// Query returns the first match in document order.
	Query(selector string) (HTMLElement, bool)
	Body() HTMLElement
}

// HTMLElement is a single node of an HTMLDocument.
type HTMLElement interface {
	Attr(name string) (string, bool)
	// TextContent concatenates all descendant text nodes, like DOM textContent.
	TextContent() string
	QueryAll(selector string) []HTMLElement
	// CloneWithout returns a detached deep copy with every descendant matching
	// one of the selectors removed. The receiver is left untouched.
	CloneWithout(selectors ...string) HTMLElement
}
