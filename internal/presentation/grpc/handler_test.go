package grpc

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"

	"github.com/twinrisk/twinrisk/internal/application/usecase"
	"github.com/twinrisk/twinrisk/internal/domain/model"
	"github.com/twinrisk/twinrisk/internal/domain/service"
	"github.com/twinrisk/twinrisk/internal/domain/valueobject"
	"github.com/twinrisk/twinrisk/internal/infrastructure/ml"
	"github.com/twinrisk/twinrisk/internal/infrastructure/ml/mltest"
	"github.com/twinrisk/twinrisk/pkg/auth"
	"github.com/twinrisk/twinrisk/pkg/testutil"
)

// --- Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func buildTestHandler(p *ml.Pipeline, version string) *RiskServiceHandler {
	schema := model.DefaultSchema()
	loaded := &ml.LoadedModel{Pipeline: p, ModelVersion: version, Origin: model.OriginFile}
	mc := usecase.ModelContext{
		Schema:       schema,
		Model:        ml.NewPipelineModel(p),
		Attributions: ml.NewTreeExplainer(p),
		Info:         loaded.Info(schema),
	}
	validator := service.NewInputValidator(schema, valueobject.DomainPolicyReject)
	interp := service.NewDefaultRiskInterpreter()
	logger := testLogger()

	return NewRiskServiceHandler(
		usecase.NewPredictRisk(mc, validator, interp, nil, nil, logger),
		usecase.NewGetModelInfo(mc, validator, interp),
		logger,
	)
}

// jsonRecord round-trips the fixture record through the codec so values arrive
// as json.Number, the way they do over the wire.
func jsonRecord(t *testing.T, mutate func(map[string]any)) map[string]any {
	t.Helper()
	rec := mltest.Record()
	if mutate != nil {
		mutate(rec)
	}
	b, err := json.Marshal(rec)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, jsonCodec{}.Unmarshal(b, &out))
	return out
}

// --- Tests ---

func TestPredictRisk(t *testing.T) {
	h := buildTestHandler(mltest.Pipeline(), mltest.ModelVersion)

	t.Run("absent features report the first missing field", func(t *testing.T) {
		for name, req := range map[string]*PredictRiskRequest{
			"nil request":  nil,
			"nil features": {},
			"empty map":    {Features: map[string]any{}},
		} {
			t.Run(name, func(t *testing.T) {
				_, err := h.PredictRisk(context.Background(), req)
				st := testutil.RequireGRPCCode(t, err, codes.InvalidArgument)
				require.Len(t, st.Details(), 1)
				br, ok := st.Details()[0].(*errdetails.BadRequest)
				require.True(t, ok)
				assert.Equal(t, model.FeatureGestationalAge, br.GetFieldViolations()[0].GetField())
			})
		}
	})

	t.Run("happy path returns ranked attributions", func(t *testing.T) {
		resp, err := h.PredictRisk(context.Background(), &PredictRiskRequest{Features: jsonRecord(t, nil)})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.RequestID)
		assert.Equal(t, "LOW", resp.RiskTier)
		assert.Equal(t, "22.1", resp.RiskPercent)
		assert.Equal(t, int32(0), resp.PredictedLabel)
		require.Len(t, resp.Probabilities, 2)
		assert.Equal(t, resp.RiskScore, resp.Probabilities[1])
		require.Len(t, resp.Attributions, 10)
		assert.Equal(t, model.FeatureFetalWeight, resp.Attributions[0].Feature)
		require.NotNil(t, resp.BaseValue)
		assert.Equal(t, "logit", resp.Link)
	})

	t.Run("missing field returns InvalidArgument with field detail", func(t *testing.T) {
		rec := jsonRecord(t, func(r map[string]any) { delete(r, model.FeatureGestationalAge) })
		_, err := h.PredictRisk(context.Background(), &PredictRiskRequest{Features: rec})

		st := testutil.RequireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, st.Message(), model.FeatureGestationalAge)
		require.Len(t, st.Details(), 1)
		br, ok := st.Details()[0].(*errdetails.BadRequest)
		require.True(t, ok)
		assert.Equal(t, model.FeatureGestationalAge, br.GetFieldViolations()[0].GetField())
		assert.Equal(t, string(model.KindMissingField), br.GetFieldViolations()[0].GetDescription())
	})

	t.Run("non-numeric value returns InvalidArgument", func(t *testing.T) {
		rec := jsonRecord(t, func(r map[string]any) { r[model.FeatureChorionicity] = "abc" })
		_, err := h.PredictRisk(context.Background(), &PredictRiskRequest{Features: rec})
		st := testutil.RequireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, st.Message(), model.FeatureChorionicity)
	})
}

func TestPredictRisk_ExplanationUnavailable(t *testing.T) {
	p, err := ml.NewPipeline([]ml.Step{{Name: "classifier", Stage: &ml.LogisticRegression{Coef: make([]float64, 10)}}})
	require.NoError(t, err)
	h := buildTestHandler(p, "linear-1")

	resp, err := h.PredictRisk(context.Background(), &PredictRiskRequest{Features: jsonRecord(t, nil)})
	require.NoError(t, err)
	assert.Nil(t, resp.Attributions)
	assert.NotEmpty(t, resp.ExplanationError)
	assert.Equal(t, []float64{0.5, 0.5}, resp.Probabilities)
}

func TestGetModelInfo(t *testing.T) {
	h := buildTestHandler(mltest.Pipeline(), mltest.ModelVersion)
	resp, err := h.GetModelInfo(context.Background(), &GetModelInfoRequest{})
	require.NoError(t, err)
	assert.Equal(t, mltest.ModelVersion, resp.Info.ModelVersion)
	assert.True(t, resp.Info.Explainable)
}

func TestServer_EndToEnd(t *testing.T) {
	jwtService, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret", Issuer: "twinrisk", Expiration: time.Hour})
	require.NoError(t, err)

	srv, err := NewServer(buildTestHandler(mltest.Pipeline(), mltest.ModelVersion), ServerConfig{}, testLogger(), jwtService)
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpclib.NewClient("passthrough:///bufnet",
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpclib.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	client := NewRiskServiceClient(conn)

	withToken := func(t *testing.T, roles ...string) context.Context {
		t.Helper()
		token, err := jwtService.GenerateToken("clinician-1", "ward-a", roles)
		require.NoError(t, err)
		return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)
	}

	t.Run("health check needs no token", func(t *testing.T) {
		resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
	})

	t.Run("missing token is Unauthenticated", func(t *testing.T) {
		_, err := client.PredictRisk(context.Background(), &PredictRiskRequest{Features: mltest.Record()})
		testutil.RequireGRPCCode(t, err, codes.Unauthenticated)
	})

	t.Run("wrong role is PermissionDenied", func(t *testing.T) {
		_, err := client.PredictRisk(withToken(t, "auditor"), &PredictRiskRequest{Features: mltest.Record()})
		testutil.RequireGRPCCode(t, err, codes.PermissionDenied)
	})

	t.Run("clinician can predict", func(t *testing.T) {
		resp, err := client.PredictRisk(withToken(t, auth.RoleClinician), &PredictRiskRequest{Features: mltest.Record()})
		require.NoError(t, err)
		assert.Equal(t, "LOW", resp.RiskTier)
		require.Len(t, resp.Attributions, 10)
	})

	t.Run("any valid token can read model info", func(t *testing.T) {
		resp, err := client.GetModelInfo(withToken(t, "auditor"), &GetModelInfoRequest{})
		require.NoError(t, err)
		assert.Len(t, resp.Info.Features, 10)
	})

	t.Run("invalid record is InvalidArgument over the wire", func(t *testing.T) {
		rec := mltest.Record()
		rec[model.FeatureGestationalAnemia] = 3
		_, err := client.PredictRisk(withToken(t, auth.RoleService), &PredictRiskRequest{Features: rec})
		st := testutil.RequireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, st.Message(), model.FeatureGestationalAnemia)
	})
}
