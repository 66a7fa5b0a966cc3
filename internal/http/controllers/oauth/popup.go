package oauth

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/dropDatabas3/zoombroker/internal/observability/logger"
)

const popupMessageType = "zoom-oauth"

// popupMessage es lo que recibe window.opener vía postMessage.
type popupMessage struct {
	Type   string `json:"type"`
	OK     bool   `json:"ok"`
	UserID string `json:"user_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

type popupData struct {
	Text         string
	Message      popupMessage
	TargetOrigin string
}

// html/template escapa Message y TargetOrigin como literales JS dentro de <script>.
var popupTmpl = template.Must(template.New("popup").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Zoom</title></head>
<body>
<p>{{.Text}}</p>
<script>
(function () {
  var msg = {{.Message}};
  var origin = {{.TargetOrigin}};
  if (window.opener) {
    window.opener.postMessage(msg, origin);
  }
  setTimeout(function () { window.close(); }, 300);
})();
</script>
</body>
</html>
`))

func (c *OAuthController) renderPopup(w http.ResponseWriter, status int, msg popupMessage, text string) {
	var buf bytes.Buffer
	if err := popupTmpl.Execute(&buf, popupData{Text: text, Message: msg, TargetOrigin: c.popup.TargetOrigin}); err != nil {
		logger.L().Error("popup render failed", logger.Component("oauth.popup"), logger.Err(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
