package extractor

import "net/url"

// DataItem is an opaque piece of typed data a Strategy chooses to emit
// alongside outbound links. The extractor core never interprets it; it is
// handed to the archive stage as-is. Kind lets an archive sink branch on
// payload shape without the extractor package knowing about archive
// concerns.
type DataItem struct {
	Kind    string
	Payload []byte
}

// Result is the outcome of a successful extraction.
type Result struct {
	Links []url.URL
	Data  []DataItem
}
