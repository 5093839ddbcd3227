package models

// Query is a question as received, plus its working-language rendition.
type Query struct {
	RawText    string
	Text       string
	Language   string
	Translated bool
}

// Answer is the generated reply in the language it will be returned in.
type Answer struct {
	Text     string
	Language string
}
