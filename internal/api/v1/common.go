package v1

import (
	"fmt"
	"io"
	"net/http"
	"time"

	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/excel"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/gin-gonic/gin"
)

// uploadField is the multipart field carrying an imported spreadsheet
const uploadField = "file"

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, filter any) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return false
	}
	return true
}

// defaultQuery fills the pagination defaults a bare query string leaves unset
func defaultQuery(q *types.QueryFilter) *types.QueryFilter {
	if q == nil {
		return types.NewDefaultQueryFilter()
	}
	def := types.NewDefaultQueryFilter()
	def.Merge(*q)
	return def
}

// readUpload returns the bytes of the uploaded spreadsheet, bounded by
// excel.MaxUploadBytes
func readUpload(c *gin.Context) ([]byte, bool) {
	fh, err := c.FormFile(uploadField)
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHintf("Upload a spreadsheet in the %q form field", uploadField).
			Mark(ierr.ErrValidation))
		return nil, false
	}

	f, err := fh.Open()
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Could not read the uploaded file").
			Mark(ierr.ErrValidation))
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, excel.MaxUploadBytes+1))
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Could not read the uploaded file").
			Mark(ierr.ErrValidation))
		return nil, false
	}
	return data, true
}

// attachment sends an xlsx workbook as a dated download
func attachment(c *gin.Context, name string, data []byte) {
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, excel.ContentType, data)
}
