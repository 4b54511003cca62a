package hotpepper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTaxonomyTotality(t *testing.T) {
	members := map[string]error{
		"missing credential": ErrMissingCredential,
		"http 401":           &HTTPStatusError{Code: 401},
		"http 403":           &HTTPStatusError{Code: 403},
		"http 404":           &HTTPStatusError{Code: 404},
		"http 429":           &HTTPStatusError{Code: 429},
		"http 503":           &HTTPStatusError{Code: 503},
		"http other":         &HTTPStatusError{Code: 418},
		"malformed":          &MalformedResponseError{Err: errors.New("bad json")},
		"net timeout":        &NetworkError{Reason: ReasonTimeout, Err: errors.New("t")},
		"net dns":            &NetworkError{Reason: ReasonDNS, Err: errors.New("d")},
		"net connection":     &NetworkError{Reason: ReasonConnection, Err: errors.New("c")},
		"net cancelled":      &NetworkError{Reason: ReasonCancelled, Err: errors.New("x")},
		"net offline":        &NetworkError{Reason: ReasonOffline, Err: errors.New("o")},
	}

	for name, err := range members {
		t.Run(name, func(t *testing.T) {
			msg := Classify(err)
			assert.NotEmpty(t, msg)
			assert.NotEqual(t, fallbackMessage, msg)
		})
	}
}

func TestClassifyDistinctStatusMessages(t *testing.T) {
	seen := map[string]int{}
	for _, code := range []int{401, 403, 404, 429, 500, 418} {
		msg := Classify(&HTTPStatusError{Code: code})
		if prev, dup := seen[msg]; dup {
			t.Fatalf("status %d and %d share message %q", prev, code, msg)
		}
		seen[msg] = code
	}
}

func TestClassifyFallback(t *testing.T) {
	assert.Equal(t, fallbackMessage, Classify(errors.New("something else entirely")))
	assert.Empty(t, Classify(nil))
}

func TestClassifyWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("fetching page: %w", &HTTPStatusError{Code: 429})
	assert.Equal(t, Classify(&HTTPStatusError{Code: 429}), Classify(wrapped))

	wrapped = fmt.Errorf("fetching page: %w", ErrMissingCredential)
	assert.Equal(t, Classify(ErrMissingCredential), Classify(wrapped))
}

func TestHTTPStatusErrorMessage(t *testing.T) {
	err := &HTTPStatusError{Code: 502}
	assert.Contains(t, err.Error(), "502")
}
