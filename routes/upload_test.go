package routes

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	utils "github.com/eventdekho/eventdekho-api/utils"
)

func multipartFile(t *testing.T, field, name, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+name+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadMedia(t *testing.T) {
	h := newHarness(t)
	_, token := h.seedUser("U", "u@x.test", true)
	url := "https://res.cloudinary.com/demo/image/upload/v1/eventdekho/uploads/poster.png"
	h.media.On("Upload", "poster.png", utils.FolderUploads).Return(url, nil).Once()

	send := func(name, contentType string) *httptest.ResponseRecorder {
		body, ct := multipartFile(t, "file", name, contentType, []byte("fake-bytes"))
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		h.router.ServeHTTP(w, req)
		return w
	}

	w := send("poster.png", "image/png")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, url, decode[map[string]any](t, w)["url"])

	w = send("notes.pdf", "application/pdf")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = h.do(http.MethodDelete, "/api/upload", gin.H{"url": url}, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	h.media.On("Delete", url).Return(nil).Once()
	w = h.do(http.MethodDelete, "/api/upload", gin.H{"url": url}, h.adminToken())
	assert.Equal(t, http.StatusOK, w.Code)

	h.media.AssertExpectations(t)
}
