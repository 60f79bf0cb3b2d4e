package models

// Page is the extraction-layer view of one document page: the raw text plus
// any tables recovered from positioned content. Either part may be empty;
// the engine always runs both extraction paths over whatever is present.
type Page struct {
	Text   string
	Tables [][][]string
}
