package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		kind   Kind
		status int
	}{
		{"transport", Transport("graph_data", errors.New("dial tcp")), ErrTransport, KindTransport, http.StatusBadGateway},
		{"malformed", MissingField("graph_data", "nodes"), ErrMalformed, KindMalformed, http.StatusUnprocessableEntity},
		{"precondition", Precondition("filter_by_hour", errors.New("no hour selected")), ErrPrecondition, KindPrecondition, http.StatusBadRequest},
		{"stale", Stale("filter_by_hour"), ErrStale, KindStale, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("load: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.target)
			assert.Equal(t, tt.kind, KindOf(wrapped))
			assert.Equal(t, tt.status, HTTPStatus(wrapped))
		})
	}
}

func TestKindsDoNotCrossMatch(t *testing.T) {
	err := Transport("graph_data", errors.New("boom"))
	assert.False(t, errors.Is(err, ErrMalformed))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestMissingFieldMessage(t *testing.T) {
	err := MissingField("ephemeris", "hourInfo.uri")
	assert.Equal(t, `ephemeris: missing field "hourInfo.uri"`, err.Error())
}
