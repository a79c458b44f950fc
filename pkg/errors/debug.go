package errors

import (
	"errors"
	"fmt"
)

// ErrorDump is the log-friendly view of an error chain.
type ErrorDump struct {
	TopMessage   string `json:"top_message"`
	Code         Code   `json:"code,omitempty"`
	Retryable    bool   `json:"retryable,omitempty"`
	Collaborator string `json:"collaborator,omitempty"`

	Chain []string `json:"chain,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}

	// The outermost typed error decides the code; the innermost collaborator wins since
	// it names the call that actually failed.
	if te := As(err); te != nil {
		d.Code = te.Code()
		d.Retryable = MetadataFor(te.Code()).Retryable
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
		if te, ok := e.(*Error); ok {
			if name := collaboratorOf(te.Details()); name != "" {
				d.Collaborator = name
			}
		}
	}

	return d
}

func collaboratorOf(details any) string {
	switch v := details.(type) {
	case map[string]any:
		name, _ := v["collaborator"].(string)
		return name
	case map[string]string:
		return v["collaborator"]
	}
	return ""
}
