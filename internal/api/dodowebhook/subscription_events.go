package dodowebhook

import (
	"log"

	"connect-ed/database"
	"connect-ed/internal/domain/schools"

	"gorm.io/gorm"
)

// setSchoolActive applies the subscription lifecycle events: active flips
// the tenant on, on_hold/cancelled/expired flip it off. SignupFeePaid is
// untouched; a lapsed subscription does not unpay the signup fee.
func setSchoolActive(env *webhookEnvelope, active bool) error {
	schoolID, err := schoolIDFromCustomData(env)
	if err != nil {
		log.Printf("[ERROR] %s missing school reference: %v", env.EventType, err)
		return nil
	}

	var school schools.School
	if err := database.DB.Where("id = ?", schoolID).First(&school).Error; err != nil {
		log.Printf("[ERROR] %s for unknown school %d: %v", env.EventType, schoolID, err)
		return nil
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&schools.School{}).
			Where("id = ?", school.ID).
			Update("is_active", active).Error; err != nil {
			return err
		}
		return recordEvent(tx, env, school.ID)
	})
}
