package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewServer(t *testing.T) {
	t.Parallel()

	type key struct{}
	base := context.WithValue(context.Background(), key{}, "base")

	srv := NewServer(base, 8081, http.NotFoundHandler(), nil)

	assert.Equal(t, ":8081", srv.Addr)
	assert.Equal(t, 5*time.Second, srv.ReadHeaderTimeout)
	assert.NotNil(t, srv.ErrorLog)
	assert.Equal(t, "base", srv.BaseContext(nil).Value(key{}))
}
