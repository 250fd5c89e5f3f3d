package usecase

import (
	"encoding/base64"
	"io"
	"testing"
	"time"

	"healthcare-appointment-api/config"
	"healthcare-appointment-api/pkg/jwt"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestTokenService(t *testing.T) *jwt.TokenService {
	t.Helper()
	svc, err := jwt.NewTokenService(config.JWTConfig{
		Secret: base64.StdEncoding.EncodeToString([]byte("usecase-test-signing-key")),
		Expiry: time.Hour,
	})
	require.NoError(t, err)
	return svc
}
