package routes

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"kit-inventory/database"
	"kit-inventory/internal/auth"
	"kit-inventory/internal/domain/kits"
	"kit-inventory/internal/domain/steam"
	steamclient "kit-inventory/internal/infra/steam"
	"kit-inventory/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrices map[int64]steam.Price

func (f fakePrices) Price(_ context.Context, appID int64) (steam.Price, error) {
	if appID == 500 {
		return steam.Price{}, steamclient.ErrUpstream
	}
	p, ok := f[appID]
	if !ok {
		return steam.Price{}, steamclient.ErrGameNotFound
	}
	return p, nil
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	r := gin.New()
	RegisterRoutes(r, Deps{
		Store:  store.New(db, store.WithTimeout(10*time.Second)),
		Issuer: auth.NewIssuer("route-test-secret", time.Hour),
		Prices: fakePrices{730: {AppID: 730, Name: "Counter-Strike 2"}},
	})
	return r
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, APIPrefix+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func signUp(t *testing.T, r http.Handler, username string) string {
	t.Helper()
	w := do(t, r, http.MethodPost, "/auth/register", "", gin.H{"username": username, "password": "gundam-0079"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[struct {
		Token string `json:"token"`
	}](t, w).Token
}

func TestHealth(t *testing.T) {
	r := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthFlow(t *testing.T) {
	r := newTestServer(t)
	token := signUp(t, r, "amuro")

	w := do(t, r, http.MethodPost, "/auth/register", "", gin.H{"username": "amuro", "password": "another-pass"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPost, "/auth/register", "", gin.H{"username": "ab", "password": "long-enough"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/auth/login", "", gin.H{"username": "amuro", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/auth/login", "", gin.H{"username": "amuro", "password": "gundam-0079"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[map[string]any](t, w)
	assert.Equal(t, "amuro", me["username"])
	assert.Equal(t, true, me["has_password"])
	assert.NotContains(t, me, "password_hash")

	w = do(t, r, http.MethodPatch, "/users/me", token, gin.H{"full_name": "<b>Amuro Ray</b>"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Amuro Ray", decode[map[string]any](t, w)["full_name"])

	w = do(t, r, http.MethodGet, "/kits", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = do(t, r, http.MethodGet, "/kits", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestKitLifecycle(t *testing.T) {
	r := newTestServer(t)
	token := signUp(t, r, "amuro")

	w := do(t, r, http.MethodPost, "/kits", token, gin.H{"name": "RX-78-2", "grade": "MG", "status": "DONE"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	kit := decode[kits.Kit](t, w)
	assert.Equal(t, kits.StatusPending, kit.Status)

	w = do(t, r, http.MethodPost, "/kits", token, gin.H{"name": "Zaku", "grade": "XL"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPatch, fmt.Sprintf("/kits/%d/status", kit.ID), token, gin.H{"status": "IN_PROGRESS"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, kits.StatusInProgress, decode[kits.Kit](t, w).Status)

	w = do(t, r, http.MethodGet, "/kits?status=IN_PROGRESS", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]kits.Kit](t, w), 1)

	w = do(t, r, http.MethodGet, "/kits?status=DONE", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = do(t, r, http.MethodPatch, fmt.Sprintf("/kits/%d", kit.ID), token, gin.H{"manufacturer": "Bandai"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[kits.Kit](t, w)
	assert.Equal(t, "RX-78-2", updated.Name)
	require.NotNil(t, updated.Manufacturer)
	assert.Equal(t, "Bandai", *updated.Manufacturer)

	w = do(t, r, http.MethodGet, "/kits/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodDelete, fmt.Sprintf("/kits/%d", kit.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, r, http.MethodGet, fmt.Sprintf("/kits/%d", kit.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOtherPrincipalSeesNotFound(t *testing.T) {
	r := newTestServer(t)
	amuro := signUp(t, r, "amuro")
	char := signUp(t, r, "char")

	w := do(t, r, http.MethodPost, "/kits", amuro, gin.H{"name": "RX-78-2", "grade": "RG"})
	require.Equal(t, http.StatusCreated, w.Code)
	kit := decode[kits.Kit](t, w)
	path := fmt.Sprintf("/kits/%d", kit.ID)

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, path, char, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodPatch, path, char, gin.H{"name": "Zaku"}).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodDelete, path, char, nil).Code)

	w = do(t, r, http.MethodPost, "/sub_assemblies", char, gin.H{"name": "Head", "kit_id": kit.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/kits", char, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]kits.Kit](t, w))
}

func TestRequirementSyncOverHTTP(t *testing.T) {
	r := newTestServer(t)
	token := signUp(t, r, "amuro")

	kit := decode[kits.Kit](t, do(t, r, http.MethodPost, "/kits", token, gin.H{"name": "Sazabi", "grade": "MG"}))
	color := decode[kits.Color](t, do(t, r, http.MethodPost, "/colors", token, gin.H{"name": "Red", "code": "R1", "hex": "#ff0000"}))

	w := do(t, r, http.MethodPost, "/colors", token, gin.H{"name": "Red again", "code": "R1", "hex": "#ee0000"})
	assert.Equal(t, http.StatusConflict, w.Code)

	runner := decode[kits.Runner](t, do(t, r, http.MethodPost, "/runners", token, gin.H{
		"name": "A", "kit_id": kit.ID, "color_id": color.ID, "amount": 1,
	}))
	sub := decode[kits.SubAssembly](t, do(t, r, http.MethodPost, "/sub_assemblies", token, gin.H{"name": "Torso", "kit_id": kit.ID}))
	part := decode[kits.KitPart](t, do(t, r, http.MethodPost, "/kit_parts", token, gin.H{
		"code": "A1", "kit_id": kit.ID, "sub_assembly_id": sub.ID,
	}))
	require.NotZero(t, part.ID)

	w = do(t, r, http.MethodPost, "/requirements/bulk", token, gin.H{
		"kit_part_id": part.ID,
		"items": []gin.H{
			{"gate": []string{"A1", "A2"}, "qty": 1, "runner_id": runner.ID},
			{"gate": []string{"A3"}, "qty": 2, "runner_id": runner.ID},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[[]kits.Requirement](t, w)
	require.Len(t, created, 2)

	w = do(t, r, http.MethodPatch, "/requirements/compare_sync", token, gin.H{
		"kit_part_id": part.ID,
		"items": []gin.H{
			{"id": created[0].ID, "gate": []string{"A9"}, "qty": 3, "runner_id": runner.ID},
			{"gate": []string{}, "qty": 1, "runner_id": runner.ID},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[kits.SyncResult](t, w)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Deleted)
	require.Len(t, res.Items, 2)
	assert.Equal(t, []string{"A9"}, []string(res.Items[0].Gate))
	assert.Equal(t, []string{}, []string(res.Items[1].Gate))

	w = do(t, r, http.MethodPatch, "/requirements/sync", token, gin.H{
		"kit_part_id": part.ID,
		"update":      []gin.H{{"id": created[0].ID, "qty": 4}},
		"delete_ids":  []uint{created[0].ID},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, fmt.Sprintf("/kit_parts/%d/requirements_with_runners", part.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	joined := decode[[]kits.Requirement](t, w)
	require.Len(t, joined, 2)
	require.NotNil(t, joined[0].Runner)
	assert.Equal(t, "A", joined[0].Runner.Name)

	w = do(t, r, http.MethodPost, "/requirements/bulk_delete", token, gin.H{"ids": []uint{res.Items[0].ID, 999}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodDelete, fmt.Sprintf("/colors/%d", color.ID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPlainTextSurvivesWrites(t *testing.T) {
	r := newTestServer(t)
	token := signUp(t, r, "char")

	w := do(t, r, http.MethodPost, "/kits", token, gin.H{"name": "Char's Zaku & Gouf", "grade": "HG"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	kit := decode[kits.Kit](t, w)
	assert.Equal(t, "Char's Zaku & Gouf", kit.Name)

	color := decode[kits.Color](t, do(t, r, http.MethodPost, "/colors", token, gin.H{"name": "Red", "code": "R1", "hex": "#ff0000"}))
	runner := decode[kits.Runner](t, do(t, r, http.MethodPost, "/runners", token, gin.H{
		"name": "B", "kit_id": kit.ID, "color_id": color.ID, "amount": 1,
	}))
	sub := decode[kits.SubAssembly](t, do(t, r, http.MethodPost, "/sub_assemblies", token, gin.H{"name": "Head", "kit_id": kit.ID}))
	part := decode[kits.KitPart](t, do(t, r, http.MethodPost, "/kit_parts", token, gin.H{
		"code": "B1", "kit_id": kit.ID, "sub_assembly_id": sub.ID,
	}))

	w = do(t, r, http.MethodPatch, "/requirements/compare_sync", token, gin.H{
		"kit_part_id": part.ID,
		"items":       []gin.H{{"gate": []string{"B&C", "A<1>"}, "qty": 1, "runner_id": runner.ID}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[kits.SyncResult](t, w)
	require.Len(t, res.Items, 1)
	assert.Equal(t, []string{"B&C", "A<1>"}, []string(res.Items[0].Gate))
}

func TestCrossKitLinksAreRejected(t *testing.T) {
	r := newTestServer(t)
	token := signUp(t, r, "kai")

	color := decode[kits.Color](t, do(t, r, http.MethodPost, "/colors", token, gin.H{"name": "Blue", "code": "B1", "hex": "#0000ff"}))
	kitA := decode[kits.Kit](t, do(t, r, http.MethodPost, "/kits", token, gin.H{"name": "Guncannon", "grade": "HG"}))
	kitB := decode[kits.Kit](t, do(t, r, http.MethodPost, "/kits", token, gin.H{"name": "Guntank", "grade": "HG"}))
	subA := decode[kits.SubAssembly](t, do(t, r, http.MethodPost, "/sub_assemblies", token, gin.H{"name": "Torso", "kit_id": kitA.ID}))
	subB := decode[kits.SubAssembly](t, do(t, r, http.MethodPost, "/sub_assemblies", token, gin.H{"name": "Treads", "kit_id": kitB.ID}))
	runnerB := decode[kits.Runner](t, do(t, r, http.MethodPost, "/runners", token, gin.H{
		"name": "C", "kit_id": kitB.ID, "color_id": color.ID, "amount": 1,
	}))

	w := do(t, r, http.MethodPost, "/kit_parts", token, gin.H{"code": "A1", "kit_id": kitA.ID, "sub_assembly_id": subB.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	part := decode[kits.KitPart](t, do(t, r, http.MethodPost, "/kit_parts", token, gin.H{
		"code": "A1", "kit_id": kitA.ID, "sub_assembly_id": subA.ID,
	}))
	w = do(t, r, http.MethodPost, "/requirements", token, gin.H{"kit_part_id": part.ID, "runner_id": runnerB.ID, "qty": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestSteamRoutes(t *testing.T) {
	r := newTestServer(t)
	token := signUp(t, r, "amuro")

	w := do(t, r, http.MethodGet, "/steam/prices/730", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Counter-Strike 2", decode[steam.Price](t, w).Name)

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/steam/prices/1", token, nil).Code)
	assert.Equal(t, http.StatusBadGateway, do(t, r, http.MethodGet, "/steam/prices/500", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/steam/prices/abc", token, nil).Code)

	w = do(t, r, http.MethodPost, "/steam/games", token, gin.H{"app_id": 730, "name": "Counter-Strike 2"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	game := decode[steam.Game](t, w)
	assert.False(t, game.IsBuy)

	w = do(t, r, http.MethodPost, "/steam/games", token, gin.H{"app_id": 730, "name": "dup"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPatch, fmt.Sprintf("/steam/games/%d", game.ID), token, gin.H{"is_buy": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[steam.Game](t, w).IsBuy)
}
