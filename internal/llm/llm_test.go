package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandHistory(t *testing.T) {
	history := []Exchange{
		{Question: "q1", Answer: "a1"},
		{Question: "q2", Answer: "a2"},
	}

	turns := ExpandHistory(history)

	assert.Equal(t, []Turn{
		{Role: RoleUser, Text: "q1"},
		{Role: RoleModel, Text: "a1"},
		{Role: RoleUser, Text: "q2"},
		{Role: RoleModel, Text: "a2"},
	}, turns)
}

func TestExpandHistory_Empty(t *testing.T) {
	turns := ExpandHistory(nil)

	assert.NotNil(t, turns)
	assert.Empty(t, turns)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		status int
		err    error
		want   ErrorKind
	}{
		{"deadline", 0, context.DeadlineExceeded, KindTimeout},
		{"wrapped deadline", 0, fmt.Errorf("call: %w", context.DeadlineExceeded), KindTimeout},
		{"canceled", 0, context.Canceled, KindCanceled},
		{"empty answer", 0, ErrEmptyAnswer, KindMalformed},
		{"unauthorized", http.StatusUnauthorized, errors.New("bad key"), KindAuth},
		{"forbidden", http.StatusForbidden, errors.New("no"), KindAuth},
		{"rate limited", http.StatusTooManyRequests, errors.New("slow down"), KindQuota},
		{"gateway timeout", http.StatusGatewayTimeout, errors.New("gw"), KindTimeout},
		{"server error", http.StatusServiceUnavailable, errors.New("down"), KindUnavailable},
		{"bad request", http.StatusBadRequest, errors.New("bad"), KindRejected},
		{"network", 0, errors.New("connection reset"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.status, tt.err))
		})
	}
}

func TestUpstreamError_Transient(t *testing.T) {
	assert.True(t, (&UpstreamError{Kind: KindTimeout}).Transient())
	assert.True(t, (&UpstreamError{Kind: KindQuota}).Transient())
	assert.True(t, (&UpstreamError{Kind: KindUnavailable}).Transient())
	assert.False(t, (&UpstreamError{Kind: KindAuth}).Transient())
	assert.False(t, (&UpstreamError{Kind: KindMalformed}).Transient())
	assert.False(t, (&UpstreamError{Kind: KindCanceled}).Transient())
}

func TestUpstreamError_Unwrap(t *testing.T) {
	err := newUpstreamError(ProviderGemini, 0, context.DeadlineExceeded)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "gemini timeout")
}
