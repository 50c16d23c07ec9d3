// Package seeds provisions a usable starting dataset: one admin, plus
// an optional demo classroom (teacher, student, scale, evaluation).
// Every seed is idempotent, keyed on email or title.
package seeds

import (
	"log"
	"time"

	"gorm.io/gorm"

	"evalku_backend/internals/constants"
	commentModel "evalku_backend/internals/features/evaluations/comment/model"
	evaluationModel "evalku_backend/internals/features/evaluations/evaluation/model"
	gradeModel "evalku_backend/internals/features/evaluations/grade/model"
	scaleModel "evalku_backend/internals/features/evaluations/scale/model"
	authService "evalku_backend/internals/features/users/auth/service"
	userModel "evalku_backend/internals/features/users/user/model"
)

// Run seeds the admin account and, when withDemo is set, a demo
// classroom. Everything runs in one transaction.
func Run(db *gorm.DB, withDemo bool) error {
	return db.Transaction(func(tx *gorm.DB) error {
		admin, err := seedUser(tx, "Admin", "admin@school.com", "admin12345", constants.RoleAdmin)
		if err != nil {
			return err
		}
		log.Printf("[INFO] seed: admin ready (id=%d)", admin.ID)

		if !withDemo {
			return nil
		}
		return seedDemo(tx)
	})
}

func seedUser(tx *gorm.DB, name, email, password string, role constants.Role) (*userModel.UserModel, error) {
	var existing userModel.UserModel
	err := tx.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := authService.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := userModel.UserModel{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     role,
		Status:   constants.UserActive,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func seedDemo(tx *gorm.DB) error {
	teacher, err := seedUser(tx, "Demo Teacher", "teacher@school.com", "teacher12345", constants.RoleTeacher)
	if err != nil {
		return err
	}
	student, err := seedUser(tx, "Demo Student", "student@school.com", "student12345", constants.RoleStudent)
	if err != nil {
		return err
	}

	var scale scaleModel.ScaleModel
	err = tx.Where("title = ?", "Oral presentation").First(&scale).Error
	if err == gorm.ErrRecordNotFound {
		scale = scaleModel.ScaleModel{
			Title:     "Oral presentation",
			CreatorID: teacher.ID,
		}
		if err := tx.Create(&scale).Error; err != nil {
			return err
		}
		criteria := []scaleModel.CriteriaModel{
			{Description: "Clarity of speech", AssociatedSkill: "Communication", MaxPoints: 10, Coefficient: 0.4, ScaleID: scale.ID},
			{Description: "Depth of content", AssociatedSkill: "Subject knowledge", MaxPoints: 20, Coefficient: 0.6, ScaleID: scale.ID},
		}
		if err := tx.Create(&criteria).Error; err != nil {
			return err
		}
		scale.Criteria = criteria
	} else if err != nil {
		return err
	} else {
		if err := tx.Where("scale_id = ?", scale.ID).Order("id ASC").Find(&scale.Criteria).Error; err != nil {
			return err
		}
	}

	var evaluation evaluationModel.EvaluationModel
	err = tx.Where("title = ?", "First presentation").First(&evaluation).Error
	if err == gorm.ErrRecordNotFound {
		evaluation = evaluationModel.EvaluationModel{
			Title:     "First presentation",
			DateEval:  time.Now().Truncate(24 * time.Hour),
			StudentID: student.ID,
			TeacherID: teacher.ID,
			ScaleID:   scale.ID,
			Status:    constants.EvaluationPublished,
		}
		if err := tx.Create(&evaluation).Error; err != nil {
			return err
		}
		for i, c := range scale.Criteria {
			grade := gradeModel.GradeModel{
				EvaluationID: evaluation.ID,
				CriteriaID:   c.ID,
				Value:        c.MaxPoints - float64(i+1),
			}
			if err := tx.Create(&grade).Error; err != nil {
				return err
			}
		}
		comment := commentModel.CommentModel{
			EvaluationID: evaluation.ID,
			TeacherID:    teacher.ID,
			Text:         "Solid first attempt, work on pacing.",
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	log.Printf("[INFO] seed: demo classroom ready")
	return nil
}
