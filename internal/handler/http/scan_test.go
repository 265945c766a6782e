package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/odpc9/attendance-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportScans_Replace(t *testing.T) {
	// Arrange
	ts := newTestServer(t)
	req := multipartRequest(t, "/api/v1/attendance/scans/import", map[string]string{"mode": "replace"}, "file", "scanner.xlsx", "PK")
	req.Header.Set("Authorization", "Bearer "+ts.adminToken(t))

	// Act
	rec := ts.do(req)

	// Assert
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"replace:scanner.xlsx"}, ts.scans.imports)
}

func TestImportScans_DefaultsToAppend(t *testing.T) {
	ts := newTestServer(t)
	req := multipartRequest(t, "/api/v1/attendance/scans/import", nil, "file", "scanner.xlsx", "PK")
	req.Header.Set("Authorization", "Bearer "+ts.adminToken(t))

	rec := ts.do(req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"append:scanner.xlsx"}, ts.scans.imports)
}

func TestImportScans_RejectsNonWorkbook(t *testing.T) {
	ts := newTestServer(t)
	req := multipartRequest(t, "/api/v1/attendance/scans/import", nil, "file", "scanner.csv", "a,b")
	req.Header.Set("Authorization", "Bearer "+ts.adminToken(t))

	rec := ts.do(req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Error.Details, "file")
	assert.Empty(t, ts.scans.imports)
}

func TestImportScans_MissingColumns(t *testing.T) {
	ts := newTestServer(t)
	ts.scans.err = attendance.ErrMissingColumns
	req := multipartRequest(t, "/api/v1/attendance/scans/import", nil, "file", "scanner.xlsx", "PK")
	req.Header.Set("Authorization", "Bearer "+ts.adminToken(t))

	rec := ts.do(req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListScans_Public(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/attendance/scans?page=3", nil))

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
