package recordings

import (
	"net/http"

	httperrors "github.com/dropDatabas3/zoombroker/internal/http/errors"
	"github.com/dropDatabas3/zoombroker/internal/http/helpers"
	svc "github.com/dropDatabas3/zoombroker/internal/http/services/recordings"
	"github.com/dropDatabas3/zoombroker/internal/observability/logger"
)

// RecordingsController maneja GET /recordings.
type RecordingsController struct {
	service svc.Service
}

func NewRecordingsController(service svc.Service) *RecordingsController {
	return &RecordingsController{service: service}
}

// List devuelve el JSON de Zoom tal cual.
func (c *RecordingsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RecordingsController.List"))

	pageSize, ok := helpers.QueryInt(r, "page_size")
	if !ok {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("page_size must be an integer"))
		return
	}

	q := r.URL.Query()
	page, err := c.service.FetchRecordings(ctx, q.Get("user_id"), svc.Query{
		FromDate:      q.Get("from_date"),
		ToDate:        q.Get("to_date"),
		PageSize:      pageSize,
		NextPageToken: q.Get("next_page_token"),
	})
	if err != nil {
		appErr := httperrors.FromError(err)
		if appErr.HTTPStatus >= 500 {
			log.Warn("recordings failed", logger.String("code", appErr.Code), logger.Err(err))
		}
		httperrors.WriteError(w, appErr)
		return
	}
	helpers.WriteRawJSON(w, http.StatusOK, page)
}
