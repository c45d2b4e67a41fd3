package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"

	"github.com/CJPJ007/ar-properties-identity/internal/config"
)

func TestNew_NoEndpointInstallsNoop(t *testing.T) {
	p, err := New(context.Background(), config.Config{}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, p.Tracer())
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNilProviderIsSafe(t *testing.T) {
	var p *Provider
	require.NotNil(t, p.Tracer())
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestIdentityResource_CarriesServiceIdentity(t *testing.T) {
	cfg := config.Config{
		ServiceName: "ar-properties-identity",
		Environment: "staging",
	}

	res, err := identityResource(context.Background(), cfg)
	require.NoError(t, err)

	attrs := res.Attributes()
	got := map[string]string{}
	for _, attr := range attrs {
		got[string(attr.Key)] = attr.Value.Emit()
	}
	require.Equal(t, "ar-properties-identity", got[string(semconv.ServiceNameKey)])
	require.Equal(t, serviceNamespace, got[string(semconv.ServiceNamespaceKey)])
	require.Equal(t, "staging", got[string(semconv.DeploymentEnvironmentKey)])
}
