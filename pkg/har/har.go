// Package har turns HTTP archive (HAR) documents into normalized exchanges.
package har

import "encoding/json"

// Document is the top level of a HAR file. Entries are kept raw so that a
// single malformed entry can be skipped without rejecting the document.
type Document struct {
	Log *Log `json:"log"`
}

// Log holds the captured entries.
type Log struct {
	Entries []json.RawMessage `json:"entries"`
}

// Entry is one request/response pair in a HAR log.
type Entry struct {
	Request  Request  `json:"request"`
	Response Response `json:"response"`
}

// Request describes the captured request.
type Request struct {
	Method      string          `json:"method"`
	URL         string          `json:"url"`
	Headers     []NameValuePair `json:"headers"`
	QueryString []NameValuePair `json:"queryString"`
	PostData    *PostData       `json:"postData"`
}

// Response describes the captured response.
type Response struct {
	Status  int             `json:"status"`
	Headers []NameValuePair `json:"headers"`
	Content *Content        `json:"content"`
}

// NameValuePair is a header or query parameter.
type NameValuePair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PostData carries the request body. Text is nil when the entry has no text body.
type PostData struct {
	MimeType string  `json:"mimeType,omitempty"`
	Text     *string `json:"text"`
}

// Content carries the response body. Text is nil when the entry has no text body.
type Content struct {
	MimeType string  `json:"mimeType,omitempty"`
	Text     *string `json:"text"`
}
