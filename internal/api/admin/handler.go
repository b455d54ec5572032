package admin

import (
	"net/http"
	"time"

	"connect-ed/database"
	"connect-ed/internal/domain/billing"
	"connect-ed/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type AdminStats struct {
	TotalUsers   int            `json:"total_users"`
	UsersPerRole map[string]int `json:"users_per_role"`
	TotalPaid    float64        `json:"total_paid"`
	RecentPaid   float64        `json:"recent_paid"`
	PendingCount int            `json:"pending_count"`
	FailedCount  int            `json:"failed_count"`
}

type AdminUser struct {
	ID         uint       `json:"id"`
	Name       string     `json:"name"`
	Lastname   string     `json:"lastname"`
	Email      string     `json:"email"`
	Role       users.Role `json:"role"`
	IsVerified bool       `json:"is_verified"`
	CreatedAt  string     `json:"created_at"`
}

// GetSchoolStats summarizes the tenant's people and payment audit trail
// for the admin dashboard.
func GetSchoolStats(c *gin.Context) {
	schoolID := c.GetUint("school_id")
	if schoolID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var stats AdminStats

	var totalUsers int64
	database.DB.Model(&users.User{}).Where("school_id = ?", schoolID).Count(&totalUsers)
	stats.TotalUsers = int(totalUsers)

	type RoleCount struct {
		Role  string
		Count int
	}
	var counts []RoleCount
	database.DB.Model(&users.User{}).
		Select("role, COUNT(id) as count").
		Where("school_id = ?", schoolID).
		Group("role").
		Scan(&counts)
	stats.UsersPerRole = map[string]int{}
	for _, rc := range counts {
		stats.UsersPerRole[rc.Role] = rc.Count
	}

	database.DB.Model(&billing.SchoolPayment{}).
		Where("school_id = ? AND status = ?", schoolID, billing.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&stats.TotalPaid)

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	database.DB.Model(&billing.SchoolPayment{}).
		Where("school_id = ? AND status = ? AND created_at >= ?", schoolID, billing.PaymentCompleted, thirtyDaysAgo).
		Select("COALESCE(SUM(amount), 0)").Scan(&stats.RecentPaid)

	var pending, failed int64
	database.DB.Model(&billing.SchoolPayment{}).
		Where("school_id = ? AND status = ?", schoolID, billing.PaymentPending).Count(&pending)
	database.DB.Model(&billing.SchoolPayment{}).
		Where("school_id = ? AND status = ?", schoolID, billing.PaymentFailed).Count(&failed)
	stats.PendingCount = int(pending)
	stats.FailedCount = int(failed)

	c.JSON(http.StatusOK, stats)
}

func ListSchoolUsers(c *gin.Context) {
	schoolID := c.GetUint("school_id")
	if schoolID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var all []users.User
	if err := database.DB.Where("school_id = ?", schoolID).Order("created_at").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	var out []AdminUser
	for _, u := range all {
		out = append(out, AdminUser{
			ID:         u.ID,
			Name:       u.Name,
			Lastname:   u.Lastname,
			Email:      u.Email,
			Role:       u.Role,
			IsVerified: u.IsVerified,
			CreatedAt:  u.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	c.JSON(http.StatusOK, out)
}

func ListSchoolPayments(c *gin.Context) {
	schoolID := c.GetUint("school_id")
	if schoolID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var payments []billing.SchoolPayment
	if err := database.DB.
		Where("school_id = ?", schoolID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}
