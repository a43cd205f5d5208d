package handler

import (
	"net/http"

	"warescan-service/internal/middleware"
	"warescan-service/internal/model"
	"warescan-service/internal/scope"
	"warescan-service/pkg/database"
	"warescan-service/pkg/jwtutil"
	"warescan-service/pkg/logger"
	"warescan-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Login authenticates a user and issues a JWT carrying role and manager
// linkage, which is everything scope resolution needs.
func Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordAuthAttempt()

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	var user model.User
	result := database.GetDB().Where("username = ?", req.Username).First(&user)
	if result.Error != nil {
		log.Error("User not found", zap.String("username", req.Username))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Error("Invalid password", zap.String("username", req.Username))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := jwtutil.GenerateToken(user.Username, user.ID, user.Role, user.ManagerID)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": echo.Map{
			"id":         user.ID,
			"username":   user.Username,
			"role":       user.Role,
			"manager_id": user.ManagerID,
		},
	})
}

// Register creates a manager account, or a sub-user attached to an existing
// manager when manager_id is supplied.
func Register(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordAuthAttempt()

	var req struct {
		Username  string `json:"username"`
		Password  string `json:"password"`
		Role      string `json:"role"`
		ManagerID *uint  `json:"manager_id,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse register request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	role := model.Role(req.Role)
	if role == "" {
		role = model.RoleManager
	}
	if !role.Valid() {
		prometheus.RecordAuthError("invalid_role")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be manager or sub-user"})
	}
	if req.Username == "" || req.Password == "" {
		prometheus.RecordAuthError("missing_credentials")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	if role == model.RoleSubUser {
		if req.ManagerID == nil {
			prometheus.RecordAuthError("missing_manager")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "sub-user accounts need a manager_id"})
		}
		var manager model.User
		result := database.GetDB().Where("id = ? AND role = ?", *req.ManagerID, model.RoleManager).First(&manager)
		if result.Error != nil {
			log.Warn("Manager not found for sub-user registration", zap.Uint("manager_id", *req.ManagerID))
			prometheus.RecordAuthError("manager_not_found")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "manager account not found"})
		}
	}

	var count int64
	database.GetDB().Model(&model.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		prometheus.RecordAuthError("username_taken")
		return c.JSON(http.StatusConflict, echo.Map{"error": "username already taken"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	user := model.User{
		Username:  req.Username,
		Password:  string(hashed),
		Role:      role,
		ManagerID: req.ManagerID,
	}
	if result := database.GetDB().Create(&user); result.Error != nil {
		log.Error("Failed to create user", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	log.Info("User registered",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))
	return c.JSON(http.StatusCreated, echo.Map{
		"id":         user.ID,
		"username":   user.Username,
		"role":       user.Role,
		"manager_id": user.ManagerID,
	})
}

// Me returns the acting identity plus its resolved scope and privileges, the
// same values every package operation runs under.
func Me(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no authenticated actor"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user_id":    actor.UserID,
		"username":   actor.Username,
		"role":       actor.Role,
		"manager_id": actor.ManagerID,
		"scope":      uint(scope.Resolve(actor)),
		"can_revert": actor.Privileges().Has(model.PrivAdminCorrect),
		"can_reset":  actor.Privileges().Has(model.PrivResetData),
	})
}
