package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connect-ed/database"
	"connect-ed/internal/domain/access"
	"connect-ed/internal/domain/schools"
	"connect-ed/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupGateTest(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&schools.School{}, &users.User{}))
	database.DB = db
}

func gateRouter(userID uint, req access.Requirements) *gin.Engine {
	r := gin.New()
	r.GET("/probe", func(c *gin.Context) {
		if userID != 0 {
			c.Set("user_id", userID)
		}
		c.Next()
	}, RequireGate(req), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func probe(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	r.ServeHTTP(w, req)
	return w
}

func seedGateFixture(t *testing.T, mutate func(*schools.School)) uint {
	t.Helper()

	due := time.Now().AddDate(0, 0, 14)
	school := schools.School{
		Name:               "Hilltop Primary",
		Plan:               schools.PlanGrowth,
		Currency:           schools.CurrencyUSD,
		IsActive:           true,
		SignupFeePaid:      true,
		OnboardingComplete: true,
		NextPaymentDate:    &due,
	}
	if mutate != nil {
		mutate(&school)
	}
	require.NoError(t, database.DB.Create(&school).Error)

	user := users.User{
		Name:     "Head Admin",
		Email:    "admin@hilltop.ac.zw",
		Role:     users.RoleAdmin,
		SchoolID: school.ID,
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return user.ID
}

func TestRequireGate_AllowsPaidOnboardedSchool(t *testing.T) {
	setupGateTest(t)
	userID := seedGateFixture(t, nil)

	w := probe(gateRouter(userID, access.DashboardPreset()))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireGate_UnauthenticatedGets401(t *testing.T) {
	setupGateTest(t)

	w := probe(gateRouter(0, access.DashboardPreset()))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(access.TargetLogin), body["redirect"])
}

func TestRequireGate_UnpaidGets402(t *testing.T) {
	setupGateTest(t)
	userID := seedGateFixture(t, func(s *schools.School) {
		s.SignupFeePaid = false
	})

	w := probe(gateRouter(userID, access.DashboardPreset()))
	require.Equal(t, http.StatusPaymentRequired, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(access.TargetPayment), body["redirect"])
}

func TestRequireGate_UnboardedGets409(t *testing.T) {
	setupGateTest(t)
	userID := seedGateFixture(t, func(s *schools.School) {
		s.OnboardingComplete = false
	})

	w := probe(gateRouter(userID, access.DashboardPreset()))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRequireGate_LockedOutGets402WithLockoutPayload(t *testing.T) {
	setupGateTest(t)
	userID := seedGateFixture(t, func(s *schools.School) {
		due := time.Now().AddDate(0, 0, -10)
		s.NextPaymentDate = &due
		s.SupportContact = "support@connect-ed.app"
	})

	w := probe(gateRouter(userID, access.DashboardPreset()))
	require.Equal(t, http.StatusPaymentRequired, w.Code)

	var body struct {
		Lockout *access.Lockout `json:"lockout"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Lockout)
	assert.Equal(t, access.LockoutAdminPaymentDue, body.Lockout.Variant)
	assert.Equal(t, 10, body.Lockout.DaysOverdue)
}

func TestLoadSession_UnknownUserIsResolvedEmpty(t *testing.T) {
	setupGateTest(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("user_id", uint(9999))

	sess := LoadSession(c)
	assert.True(t, sess.Resolved)
	assert.False(t, sess.Authenticated)
	assert.Nil(t, sess.User)
}
