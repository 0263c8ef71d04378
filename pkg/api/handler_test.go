package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethpandaops/trace-icicle/pkg/icicle"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)

	engine := icicle.NewEngine(log)
	handler := NewHandler(log, engine, nil, nil)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	return mux
}

func TestBuildHierarchy_DecodedForest(t *testing.T) {
	mux := newTestMux(t)

	body := `{
		"decodedTrace": [
			{"signature": "a()", "gasUsed": 1},
			{"signature": "b()", "gasUsed": 2}
		]
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/hierarchy", strings.NewReader(body))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var rsp HierarchyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rsp))

	require.NotNil(t, rsp.Tree)
	assert.Equal(t, "", rsp.Tree.ID)
	require.Len(t, rsp.Tree.Children, 2)
	assert.Equal(t, 2, rsp.MaxDepth)
	assert.Equal(t, 3, rsp.NodeCount)
	assert.Equal(t, uint64(3), rsp.TotalGas)
}

func TestBuildHierarchy_FallbackTrace(t *testing.T) {
	mux := newTestMux(t)

	body := `{
		"simulation": {
			"trace": {"input": "0xa9059cbb00", "gasUsed": 3000}
		}
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/hierarchy", strings.NewReader(body))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var rsp HierarchyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rsp))

	require.NotNil(t, rsp.Tree)
	assert.Equal(t, "0xa9059cbb - 3000 GAS", rsp.Tree.ID)
}

func TestBuildHierarchy_MalformedTraceStillRenders(t *testing.T) {
	mux := newTestMux(t)

	// Valid JSON body, nonsense trace content: best-effort empty tree.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/hierarchy", strings.NewReader(`{"decodedTrace": 42}`))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var rsp HierarchyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rsp))

	require.NotNil(t, rsp.Tree)
	assert.Equal(t, "", rsp.Tree.ID)
	assert.Equal(t, 1, rsp.MaxDepth)
}

func TestBuildHierarchy_UnreadableBody(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/hierarchy", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHierarchyForTransaction_NoNodeConfigured(t *testing.T) {
	mux := newTestMux(t)

	hash := "0x" + strings.Repeat("ab", 32)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/hierarchy/tx/"+hash, nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestIsTxHash(t *testing.T) {
	assert.True(t, isTxHash("0x"+strings.Repeat("0f", 32)))
	assert.False(t, isTxHash("0x1234"))
	assert.False(t, isTxHash(strings.Repeat("ab", 33)))
	assert.False(t, isTxHash("0x"+strings.Repeat("zz", 32)))
}
