package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jahonen/partnermap/internal/application/approval"
	"github.com/jahonen/partnermap/internal/application/auth"
	"github.com/jahonen/partnermap/internal/application/notification"
	"github.com/jahonen/partnermap/internal/application/report"
	"github.com/jahonen/partnermap/internal/application/usecase"
	"github.com/jahonen/partnermap/internal/application/workflow"
	"github.com/jahonen/partnermap/internal/domain"
	"github.com/jahonen/partnermap/internal/infrastructure/email"
	"github.com/jahonen/partnermap/internal/infrastructure/memory"
	"github.com/jahonen/partnermap/internal/infrastructure/pdf"
	apphttp "github.com/jahonen/partnermap/internal/interfaces/http"
	"github.com/jahonen/partnermap/pkg/catalog"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testJWTSecret = "test-secret-key-for-unit-tests"

var (
	ana   = auth.Caller{UserID: "u-ana", Email: "ana@example.com"}
	beto  = auth.Caller{UserID: "u-beto", Email: "beto@example.com"}
	ajeno = auth.Caller{UserID: "u-ajeno", Email: "ajeno@example.com"}
)

type testServer struct {
	app    *fiber.App
	issuer *auth.TokenIssuer
	outbox *email.Outbox
}

// newTestServer arma la API completa sobre el almacén en memoria.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zerolog.Nop()
	store := memory.NewStore()
	repos, tx := store.Repos(), store.TxRunner()
	outbox := email.NewOutbox()

	builder, err := notification.NewBuilder(notification.Settings{
		From:    "noreply@partnermap.app",
		BaseURL: "https://app.partnermap.test",
	}, catalog.MustLoad())
	require.NoError(t, err)

	issuer := auth.NewTokenIssuer(auth.TokenConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: "partnermap-test"})
	publisher := approval.NewDirectPublisher(approval.NewNotifier(repos, outbox, builder, log))

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		CompanyUC:  usecase.NewCompanyUseCase(tx, repos, log),
		InviteUC:   usecase.NewInviteUseCase(tx, repos, outbox, builder, log),
		ResponseUC: usecase.NewResponseUseCase(tx, repos, log),
		CommentUC:  usecase.NewCommentUseCase(repos, log),
		ApprovalUC: approval.NewUseCase(tx, repos, publisher, log),
		ReportUC:   report.NewUseCase(repos, builder, pdf.NewMarotoPDFGenerator(), log),
		Machine: workflow.NewMachine(workflow.Deps{
			Tx: tx, Repos: repos, Sender: outbox, Builder: builder, Log: log,
		}),
		Verifier: issuer,
		Service:  "partnermap-test",
		Log:      log,
	})
	return &testServer{app: app, issuer: issuer, outbox: outbox}
}

// do lanza la petición; caller vacío = sin Authorization.
func (s *testServer) do(t *testing.T, method, path string, caller auth.Caller, body any) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if caller.UserID != "" {
		tok, err := s.issuer.Issue(caller)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && resp.Header.Get("Content-Type") != "application/pdf" {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

// setupCompany ana crea la empresa y beto se une con el código.
func (s *testServer) setupCompany(t *testing.T) (companyID, code string) {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/api/companies", ana, map[string]any{
		"companyName": "Acme Oy", "userName": "Ana",
	})
	require.Equal(t, http.StatusCreated, status, body)
	companyID, code = body["companyId"].(string), body["inviteCode"].(string)

	status, body = s.do(t, http.MethodPost, "/api/companies/join", beto, map[string]any{
		"inviteCode": code, "userName": "Beto",
	})
	require.Equal(t, http.StatusOK, status, body)
	return companyID, code
}

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación y mapeo de errores
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth_Publico(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodGet, "/health", auth.Caller{}, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

// Caso: sin header Authorization → 401 unauthenticated.
func TestAuthMiddleware_SinToken(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodPost, "/api/companies", auth.Caller{}, map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthenticated", body["code"])
}

// Caso: token firmado con otro secreto → 401.
func TestAuthMiddleware_TokenInvalido(t *testing.T) {
	s := newTestServer(t)
	other := auth.NewTokenIssuer(auth.TokenConfig{Secret: "otro-secreto", ExpMinutes: 60})
	tok, err := other.Issue(ana)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/companies/c1/comments", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	cases := map[domain.Kind]int{
		domain.KindUnauthenticated:    401,
		domain.KindInvalidArgument:    400,
		domain.KindNotFound:           404,
		domain.KindPermissionDenied:   403,
		domain.KindFailedPrecondition: 412,
		domain.KindResourceExhausted:  429,
		domain.KindInternal:           500,
	}
	for kind, want := range cases {
		assert.Equal(t, want, apphttp.StatusFor(kind), kind)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Empresas e invitaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateCompany_ValidaCampos(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodPost, "/api/companies", ana, map[string]any{"userName": "Ana"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid-argument", body["code"])
	assert.Equal(t, "companyName is required", body["message"])
}

func TestCreateCompany_CuerpoMalformado(t *testing.T) {
	s := newTestServer(t)
	tok, err := s.issuer.Issue(ana)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/companies", bytes.NewBufferString(`{"companyName":`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestJoinCompany_CodigoDesconocido(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodPost, "/api/companies/join", beto, map[string]any{
		"inviteCode": "zzzzzzzz", "userName": "Beto",
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not-found", body["code"])
}

func TestInvites_EnviarYCancelar(t *testing.T) {
	s := newTestServer(t)
	_, code := s.setupCompany(t)

	status, body := s.do(t, http.MethodPost, "/api/invites", ana, map[string]any{
		"inviteCode": code, "email": "carla@example.com",
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["ok"])
	require.Len(t, s.outbox.To("carla@example.com"), 1)

	// Caso: un fundador no puede invitar
	status, body = s.do(t, http.MethodPost, "/api/invites", beto, map[string]any{
		"inviteCode": code, "email": "dani@example.com",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "permission-denied", body["code"])

	status, _ = s.do(t, http.MethodPost, "/api/invites/cancel", ana, map[string]any{
		"inviteCode": code, "email": "carla@example.com",
	})
	assert.Equal(t, http.StatusOK, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Despachador de acciones
// ──────────────────────────────────────────────────────────────────────────────

func TestBlueprint_ExportPorDefecto(t *testing.T) {
	s := newTestServer(t)
	companyID, _ := s.setupCompany(t)

	status, body := s.do(t, http.MethodPost, "/api/blueprint", beto, map[string]any{"companyId": companyID})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, float64(1), body["version"])
	assert.Equal(t, "Acme Oy", body["companyName"])
	assert.Len(t, body["participants"], 2)
	assert.Equal(t, []any{}, body["responses"])
	assert.Nil(t, body["workflow"])
}

func TestBlueprint_Errores(t *testing.T) {
	s := newTestServer(t)
	companyID, _ := s.setupCompany(t)

	cases := []struct {
		name   string
		caller auth.Caller
		body   map[string]any
		status int
		code   string
	}{
		{"sin companyId", ana, map[string]any{"action": "startReview"}, 400, "invalid-argument"},
		{"acción desconocida", ana, map[string]any{"companyId": companyID, "action": "launch"}, 400, "invalid-argument"},
		{"option no numérica", ana, map[string]any{"companyId": companyID, "action": "setBlueprintSelection", "domainKey": "equityOwnership", "option": "x"}, 400, "invalid-argument"},
		{"option decimal", ana, map[string]any{"companyId": companyID, "action": "setBlueprintSelection", "domainKey": "equityOwnership", "option": 1.5}, 400, "invalid-argument"},
		{"empresa inexistente", ana, map[string]any{"companyId": "nope"}, 404, "not-found"},
		{"no participante", ajeno, map[string]any{"companyId": companyID}, 403, "permission-denied"},
		{"fundador sin rol admin", beto, map[string]any{"companyId": companyID, "action": "startReview"}, 403, "permission-denied"},
		{"etapa incorrecta", ana, map[string]any{"companyId": companyID, "action": "startFinalize"}, 412, "failed-precondition"},
		{"sin confirmación", ana, map[string]any{"companyId": companyID, "action": "startFromScratch", "confirm": "yes"}, 412, "failed-precondition"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := s.do(t, http.MethodPost, "/api/blueprint", tc.caller, tc.body)
			assert.Equal(t, tc.status, status, body)
			assert.Equal(t, tc.code, body["code"])
		})
	}
}

// Caso: startReview con respuestas incompletas devuelve los usuarios pendientes en details.
func TestBlueprint_StartReviewIncompleto(t *testing.T) {
	s := newTestServer(t)
	companyID, _ := s.setupCompany(t)

	status, body := s.do(t, http.MethodPost, "/api/blueprint", ana, map[string]any{
		"companyId": companyID, "action": "startReview", "domains": []string{"equityOwnership"},
	})
	assert.Equal(t, http.StatusPreconditionFailed, status)
	details, ok := body["details"].(map[string]any)
	require.True(t, ok, body)
	assert.ElementsMatch(t, []any{ana.UserID, beto.UserID}, details["missingUserIds"])
}

func TestBlueprint_StartReviewYSeleccion(t *testing.T) {
	s := newTestServer(t)
	companyID, _ := s.setupCompany(t)
	answers := map[string]any{"domains": map[string]any{"equityOwnership": map[string]any{"options": []int{2, 1}}}}
	for _, c := range []auth.Caller{ana, beto} {
		status, body := s.do(t, http.MethodPut, "/api/companies/"+companyID+"/responses/me", c, answers)
		require.Equal(t, http.StatusOK, status, body)
	}

	status, body := s.do(t, http.MethodPost, "/api/blueprint", ana, map[string]any{
		"companyId": companyID, "action": "startReview", "domains": []string{"equityOwnership"},
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "review", body["stage"])

	status, body = s.do(t, http.MethodPost, "/api/blueprint", ana, map[string]any{
		"companyId": companyID, "action": "setBlueprintSelection", "domainKey": "equityOwnership", "option": 2,
	})
	require.Equal(t, http.StatusOK, status, body)

	// Caso: una cadena numérica también vale como opción
	status, body = s.do(t, http.MethodPost, "/api/blueprint", ana, map[string]any{
		"companyId": companyID, "action": "setBlueprintSelection", "domainKey": "equityOwnership", "option": "3",
	})
	require.Equal(t, http.StatusOK, status, body)
	status, body = s.do(t, http.MethodPost, "/api/blueprint", beto, map[string]any{"companyId": companyID})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, float64(3), body["blueprint"].(map[string]any)["selections"].(map[string]any)["equityOwnership"])

	// Caso: las respuestas quedan bloqueadas tras iniciar la revisión
	status, body = s.do(t, http.MethodPut, "/api/companies/"+companyID+"/responses/me", beto, answers)
	assert.Equal(t, http.StatusPreconditionFailed, status)
	assert.Equal(t, "Responses are locked once review begins", body["message"])
}

// Caso: startReview sin domains congela todos los dominios del catálogo, en orden.
func TestBlueprint_StartReviewSinDominiosUsaCatalogo(t *testing.T) {
	s := newTestServer(t)
	companyID, _ := s.setupCompany(t)
	keys := catalog.MustLoad().Keys()
	domains := map[string]any{}
	for _, k := range keys {
		domains[k] = map[string]any{"options": []int{1}}
	}
	for _, c := range []auth.Caller{ana, beto} {
		status, body := s.do(t, http.MethodPut, "/api/companies/"+companyID+"/responses/me", c, map[string]any{"domains": domains})
		require.Equal(t, http.StatusOK, status, body)
	}

	status, body := s.do(t, http.MethodPost, "/api/blueprint", ana, map[string]any{
		"companyId": companyID, "action": "startReview",
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "review", body["stage"])

	status, body = s.do(t, http.MethodPost, "/api/blueprint", ana, map[string]any{"companyId": companyID})
	require.Equal(t, http.StatusOK, status, body)
	want := make([]any, 0, len(keys))
	for _, k := range keys {
		want = append(want, k)
	}
	assert.Equal(t, want, body["workflow"].(map[string]any)["domains"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Respuestas, comentarios, aprobaciones y PDF
// ──────────────────────────────────────────────────────────────────────────────

func TestResponses_GuardarYLeer(t *testing.T) {
	s := newTestServer(t)
	companyID, _ := s.setupCompany(t)
	path := "/api/companies/" + companyID + "/responses/me"

	status, body := s.do(t, http.MethodPut, path, beto, map[string]any{
		"domains": map[string]any{"equityOwnership": map[string]any{"options": []int{3, 1, 3}, "option": 2}},
	})
	require.Equal(t, http.StatusOK, status, body)

	status, body = s.do(t, http.MethodGet, path, beto, nil)
	require.Equal(t, http.StatusOK, status)
	domains := body["domains"].(map[string]any)
	assert.Equal(t, []any{float64(1), float64(2), float64(3)}, domains["equityOwnership"].(map[string]any)["options"])

	status, body = s.do(t, http.MethodPut, path, beto, map[string]any{
		"domains": map[string]any{"equityOwnership": map[string]any{"options": []int{0}}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "options must be positive integers", body["message"])
}

func TestComments_CrearListarBorrar(t *testing.T) {
	s := newTestServer(t)
	companyID, _ := s.setupCompany(t)
	path := "/api/companies/" + companyID + "/comments"

	status, body := s.do(t, http.MethodPost, path, ana, map[string]any{"domain": "equityOwnership", "text": "  hola  "})
	require.Equal(t, http.StatusCreated, status, body)
	comment := body["comment"].(map[string]any)
	assert.Equal(t, "hola", comment["text"])
	assert.Equal(t, "Ana", comment["userName"])
	id := comment["id"].(string)

	status, body = s.do(t, http.MethodGet, path, beto, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 1)

	// Caso: solo el autor borra
	status, _ = s.do(t, http.MethodDelete, path+"/"+id, beto, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = s.do(t, http.MethodDelete, path+"/"+id, ana, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = s.do(t, http.MethodDelete, path+"/"+id, ana, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestApproval_AvisaAlAdmin(t *testing.T) {
	s := newTestServer(t)
	companyID, _ := s.setupCompany(t)
	path := "/api/companies/" + companyID + "/approvals/me"

	status, body := s.do(t, http.MethodPut, path, beto, map[string]any{"approved": true})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["granted"])
	assert.Len(t, s.outbox.To(ana.Email), 1)

	// Caso: repetir true no es transición
	_, body = s.do(t, http.MethodPut, path, beto, map[string]any{"approved": true})
	assert.Equal(t, false, body["granted"])
	assert.Len(t, s.outbox.To(ana.Email), 1)

	status, body = s.do(t, http.MethodPut, path, beto, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "approved is required", body["message"])
}

func TestBlueprintPDF_SoloEnFinalizeOCerrado(t *testing.T) {
	s := newTestServer(t)
	companyID, _ := s.setupCompany(t)

	status, body := s.do(t, http.MethodGet, "/api/companies/"+companyID+"/blueprint.pdf", ana, nil)
	assert.Equal(t, http.StatusPreconditionFailed, status)
	assert.Equal(t, "failed-precondition", body["code"])
}
