package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/odpc9/attendance-backend-go/internal/domain/leave"
	"github.com/odpc9/attendance-backend-go/internal/domain/meta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLeave() leave.CreateLeaveRequest {
	return leave.CreateLeaveRequest{
		PersonName: "สมชาย ใจดี",
		WorkGroup:  meta.WorkGroups[0],
		Category:   "sick",
		StartDate:  "2025-05-14",
		EndDate:    "2025-05-15",
		Reason:     "fever",
	}
}

func multipartRequest(t *testing.T, path string, fields map[string]string, fileField, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCreateLeave_Multipart(t *testing.T) {
	// Arrange
	ts := newTestServer(t)
	data, err := json.Marshal(validLeave())
	require.NoError(t, err)
	req := multipartRequest(t, "/api/v1/leaves", map[string]string{"data": string(data)}, "attachment", "cert.pdf", "%PDF-1.4")

	// Act
	rec := ts.do(req)

	// Assert
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, ts.leaves.created, 1)
	assert.Equal(t, "สมชาย ใจดี", ts.leaves.created[0].PersonName)
	assert.Equal(t, []string{"cert.pdf:%PDF-1.4"}, ts.leaves.attachments)
}

func TestCreateLeave_JSONBody(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(jsonRequest(t, http.MethodPost, "/api/v1/leaves", validLeave()))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, ts.leaves.created, 1)
	assert.Nil(t, ts.leaves.created[0].File)
}

func TestCreateLeave_MissingDataField(t *testing.T) {
	ts := newTestServer(t)
	req := multipartRequest(t, "/api/v1/leaves", map[string]string{}, "attachment", "cert.pdf", "x")

	rec := ts.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, ts.leaves.created)
}

func TestCreateLeave_RejectsAttachmentType(t *testing.T) {
	ts := newTestServer(t)
	data, _ := json.Marshal(validLeave())
	req := multipartRequest(t, "/api/v1/leaves", map[string]string{"data": string(data)}, "attachment", "run.exe", "MZ")

	rec := ts.do(req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Contains(t, env.Error.Details, "attachment")
	assert.Empty(t, ts.leaves.created)
}

func TestCreateLeave_ValidationErrors(t *testing.T) {
	// Arrange
	ts := newTestServer(t)
	bad := validLeave()
	bad.PersonName = ""
	bad.WorkGroup = "unknown group"
	bad.EndDate = "2025-05-01"

	// Act
	rec := ts.do(jsonRequest(t, http.MethodPost, "/api/v1/leaves", bad))

	// Assert
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Contains(t, env.Error.Details, "person_name")
	assert.Contains(t, env.Error.Details, "work_group")
	assert.Contains(t, env.Error.Details, "end_date")
}

func TestListLeaves_ParsesFilter(t *testing.T) {
	ts := newTestServer(t)

	q := url.Values{}
	q.Set("person_name", " สม ")
	q.Set("category", "ลาป่วย")
	q.Set("start_date", "2568-05-01")
	q.Set("page", "2")
	q.Set("limit", "5")

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/leaves?"+q.Encode(), nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	f := ts.leaves.filter
	require.NotNil(t, f.PersonName)
	assert.Equal(t, "สม", *f.PersonName)
	require.NotNil(t, f.Category)
	assert.Equal(t, "sick", *f.Category)
	require.NotNil(t, f.StartDate)
	assert.Equal(t, "2025-05-01", *f.StartDate)
	assert.Nil(t, f.EndDate)
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 5, f.Limit)
}

func TestGetLeave_NotFound(t *testing.T) {
	ts := newTestServer(t)
	ts.leaves.err = leave.ErrLeaveNotFound

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/leaves/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeEnvelope(t, rec).Error.Code)
}

func TestUpdateLeave_AsAdmin(t *testing.T) {
	// Arrange
	ts := newTestServer(t)
	category := "personal"
	req := jsonRequest(t, http.MethodPut, "/api/v1/leaves/l-9", leave.UpdateLeaveRequest{Category: &category})
	req.Header.Set("Authorization", "Bearer "+ts.adminToken(t))

	// Act
	rec := ts.do(req)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, ts.leaves.updated, 1)
	assert.Equal(t, "l-9", ts.leaves.updated[0].ID)
	assert.Equal(t, "personal", *ts.leaves.updated[0].Category)
}

func TestUpdateLeave_InvertedRange(t *testing.T) {
	ts := newTestServer(t)
	ts.leaves.err = leave.ErrInvalidDateRange
	req := jsonRequest(t, http.MethodPut, "/api/v1/leaves/l-9", map[string]string{"end_date": "2025-01-01"})
	req.Header.Set("Authorization", "Bearer "+ts.adminToken(t))

	rec := ts.do(req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Error.Details, "end_date")
}

func TestReplaceLeaves_AsAdmin(t *testing.T) {
	// Arrange
	ts := newTestServer(t)
	body := leave.ReplaceLeavesRequest{Leaves: []leave.LeaveRow{
		{ID: "row-2", CreateLeaveRequest: validLeave()},
		{CreateLeaveRequest: validLeave()},
	}}
	req := jsonRequest(t, http.MethodPut, "/api/v1/leaves", body)
	req.Header.Set("Authorization", "Bearer "+ts.adminToken(t))

	// Act
	rec := ts.do(req)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var data map[string]int
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	assert.Equal(t, 2, data["rows"])
	require.Len(t, ts.leaves.replaced, 1)
	assert.Equal(t, "row-2", ts.leaves.replaced[0].Leaves[0].ID)
}

func TestReplaceLeaves_ReportsRowErrors(t *testing.T) {
	ts := newTestServer(t)
	bad := validLeave()
	bad.Category = "holiday"
	req := jsonRequest(t, http.MethodPut, "/api/v1/leaves", leave.ReplaceLeavesRequest{Leaves: []leave.LeaveRow{{CreateLeaveRequest: bad}}})
	req.Header.Set("Authorization", "Bearer "+ts.adminToken(t))

	rec := ts.do(req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Error.Details, "leaves[0].category")
}
