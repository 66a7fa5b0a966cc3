// Package logger expone un logger zap único para todo el broker, con scoping por request.
//
// Inicialización (una vez en cmd/service):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "zoombroker"})
//	defer logger.Sync()
//
// En controllers/services el logger sale del contexto, que ya trae request_id/method/path
// inyectados por el middleware de logging:
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("FetchRecordings"))
//	log.Info("token refreshed", logger.UserID(userID))
//
// Nunca se loguean secretos ni tokens completos: para states y tokens usar TokenPrefix.
package logger
