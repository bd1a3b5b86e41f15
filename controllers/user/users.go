package userControllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/haku19602/beetlefactory-back/apperr"
	"github.com/haku19602/beetlefactory-back/auth"
	"github.com/haku19602/beetlefactory-back/middleware"
	"github.com/haku19602/beetlefactory-back/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// -------- Request / response structs --------

type RegisterInput struct {
	Account  string `json:"account" binding:"required,alphanum,min=4,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginInput struct {
	Account  string `json:"account" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type profileResult struct {
	Account string      `json:"account"`
	Email   string      `json:"email"`
	Role    models.Role `json:"role"`
	Cart    int         `json:"cart"`
	Avatar  string      `json:"avatar"`
}

type loginResult struct {
	Token string `json:"token"`
	profileResult
}

// -------- Validation messages --------

var fieldMessages = map[string]map[string]string{
	"Account": {
		"required": "使用者帳號必填",
		"min":      "帳號名稱最少 4 字",
		"max":      "帳號名稱最多 20 字",
		"alphanum": "帳號名稱只能使用英文或數字",
	},
	"Email": {
		"required": "使用者信箱必填",
		"email":    "信箱格式錯誤",
	},
	"Password": {
		"required": "使用者密碼必填",
	},
}

// bindError maps a gin binding failure to ValidationFailed on the first
// offending field.
func bindError(err error) *apperr.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if msg, ok := fieldMessages[fe.Field()][fe.Tag()]; ok {
			return apperr.Validation(fe.Field(), msg)
		}
		return apperr.Validation(fe.Field(), "欄位格式錯誤")
	}
	return apperr.Validation("", "欄位格式錯誤")
}

// -------- Handlers --------

// POST /users
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperr.Fail(c, bindError(err))
			return
		}

		hash, err := auth.HashPassword(input.Password)
		if err != nil {
			apperr.Fail(c, err)
			return
		}

		user := models.User{
			ID:       uuid.NewString(),
			Account:  input.Account,
			Email:    input.Email,
			Password: hash,
		}
		if err := db.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				apperr.Fail(c, apperr.ErrConflict)
				return
			}
			apperr.Fail(c, apperr.Unknown(err))
			return
		}

		apperr.OK(c, nil)
	}
}

// POST /users/login
func Login(db *gorm.DB, sessions *auth.SessionManager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperr.Fail(c, apperr.Validation("", "缺少帳號或密碼欄位"))
			return
		}

		var user models.User
		err := db.Preload("Cart").Where("account = ?", input.Account).First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Same caller-facing message as a wrong password, so error
				// text cannot be used to enumerate accounts.
				log.Info("login failed", zap.String("account", input.Account), zap.String("reason", "no such account"))
				apperr.Fail(c, apperr.ErrInvalidCredential)
				return
			}
			apperr.Fail(c, apperr.Unknown(err))
			return
		}
		if !auth.VerifyPassword(user.Password, input.Password) {
			log.Info("login failed", zap.String("account", input.Account), zap.String("reason", "wrong password"))
			apperr.Fail(c, apperr.ErrInvalidCredential)
			return
		}

		token, err := sessions.Issue(user.ID)
		if err != nil {
			apperr.Fail(c, err)
			return
		}

		apperr.OK(c, loginResult{
			Token: token,
			profileResult: profileResult{
				Account: user.Account,
				Email:   user.Email,
				Role:    user.Role,
				Cart:    user.CartQuantity(),
				Avatar:  user.Avatar,
			},
		})
	}
}

// DELETE /users/logout
func Logout(sessions *auth.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if err := sessions.Revoke(user.ID, middleware.CurrentToken(c)); err != nil {
			apperr.Fail(c, err)
			return
		}
		apperr.OK(c, nil)
	}
}

// PATCH /users/extend
func Extend(sessions *auth.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		token, err := sessions.Rotate(user.ID, middleware.CurrentToken(c))
		if err != nil {
			apperr.Fail(c, err)
			return
		}
		apperr.OK(c, token)
	}
}

// GET /users/me
func GetProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	apperr.OK(c, profileResult{
		Account: user.Account,
		Email:   user.Email,
		Role:    user.Role,
		Cart:    user.CartQuantity(),
		Avatar:  user.Avatar,
	})
}

// GET /admin/users returns all accounts, public fields only.
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.
			Select("id", "account", "email", "role", "avatar", "created_at").
			Order("created_at desc").
			Find(&users).Error; err != nil {
			apperr.Fail(c, apperr.Unknown(err))
			return
		}
		apperr.OK(c, users)
	}
}

// DELETE /admin/users/:id removes the account and its owned rows. Orders are
// history and keep the dangling user id.
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		result := db.Delete(&models.User{}, "id = ?", id)
		if result.Error != nil {
			apperr.Fail(c, apperr.Unknown(result.Error))
			return
		}
		if result.RowsAffected == 0 {
			apperr.Fail(c, apperr.ErrNotFound)
			return
		}
		apperr.OK(c, nil)
	}
}
