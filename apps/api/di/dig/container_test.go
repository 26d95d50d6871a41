package dig_container

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/cgpa/apps/api/echo"
	"github.com/trezcool/cgpa/core"
	"github.com/trezcool/cgpa/storage/kvstore"
)

func TestNew(t *testing.T) {
	t.Setenv("ENV", "TEST")
	t.Setenv("TEST_STORE_DRIVER", "memory")
	t.Setenv("TEST_LOG_LEVEL", "error")

	c := New()
	err := c.Invoke(func(conf *core.Config, closeStore kvstore.Closer, server *echoapi.Server) {
		defer func() { assert.NoError(t, closeStore()) }()

		assert.True(t, conf.TestMode)
		assert.Equal(t, "memory", conf.Store.Driver)

		req := httptest.NewRequest(http.MethodGet, "/v1/records", nil)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
	require.NoError(t, err)
}
