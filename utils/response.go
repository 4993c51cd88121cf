package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var production bool

// SetProduction controls whether error causes are included in response
// bodies. main wires this from the loaded config at startup.
func SetProduction(enabled bool) {
	production = enabled
}

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"status": "success", "data": data})
}

// JSONError renders any error. AppErrors keep their code and status;
// everything else becomes a 500. Internal detail is only exposed outside
// production.
func JSONError(c *gin.Context, err error) {
	if appErr, ok := AsAppError(err); ok {
		body := gin.H{"code": appErr.Code, "message": appErr.Message}
		if appErr.Err != nil && !production {
			body["details"] = appErr.Err.Error()
		}
		c.JSON(appErr.Status, gin.H{"status": "error", "error": body})
		return
	}

	logrus.WithError(err).Error("unhandled error")
	body := gin.H{"code": "error.internal", "message": "internal server error"}
	if !production {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": body})
}
