package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"homophone_dict/internal/models"
	"homophone_dict/internal/repository"
	"homophone_dict/internal/utils"
)

const (
	minPasswordLength = 6
	localOpenIDPrefix = "local_"
	loginMethodLocal  = "local"
)

var errBadCredentials = newError(CodeUnauthenticated, "帳號或密碼錯誤")

type UserService struct {
	userRepo repository.UserRepository
	tokens   *utils.TokenManager
	logger   *logrus.Logger
	now      func() time.Time
}

func NewUserService(userRepo repository.UserRepository, tokens *utils.TokenManager, logger *logrus.Logger, now func() time.Time) *UserService {
	return &UserService{userRepo: userRepo, tokens: tokens, logger: logger, now: now}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult 登入或註冊成功後回傳的 token 與用戶
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register 建立本地帳號，外部身份 ID 以 local_ 加上隨機 UUID 產生
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	name := utils.SanitizeInput(input.Name, 100)
	email := strings.ToLower(utils.SanitizeInput(input.Email, 320))
	if name == "" {
		return nil, validationError("名稱不能為空")
	}
	if len(input.Password) < minPasswordLength {
		return nil, validationError("密碼長度至少 6 個字元")
	}
	if email != "" {
		_, err := s.userRepo.FindByEmail(ctx, email)
		if err == nil {
			return nil, conflictError("此電子郵件已被註冊")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internalError("讀取用戶失敗", err)
		}
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, internalError("密碼加密失敗", err)
	}
	user := &models.User{
		OpenID:       localOpenIDPrefix + uuid.NewString(),
		Name:         name,
		Email:        email,
		LoginMethod:  loginMethodLocal,
		PasswordHash: hash,
		Role:         models.RoleUser,
		LastSignedIn: s.now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storeError(err, "", "用戶 ID 已存在")
	}
	return s.issue(user)
}

// Login 以外部身份 ID 或電子郵件登入
func (s *UserService) Login(ctx context.Context, account, password string) (*AuthResult, error) {
	account = utils.SanitizeInput(account, 320)
	if account == "" || password == "" {
		return nil, validationError("帳號與密碼不能為空")
	}

	user, err := s.userRepo.FindByOpenID(ctx, account)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = s.userRepo.FindByEmail(ctx, strings.ToLower(account))
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, internalError("讀取用戶失敗", err)
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, errBadCredentials
	}
	if user.IsDisabled {
		return nil, forbiddenError("帳號已被停用")
	}

	now := s.now()
	if err := s.userRepo.TouchSignedIn(ctx, user.ID, now); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("更新登入時間失敗")
	} else {
		user.LastSignedIn = now
	}
	return s.issue(user)
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, internalError("生成 token 失敗", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Identify 以 token 中的用戶 ID 讀取最新的用戶資料，停用或已刪除的用戶不能通過
func (s *UserService) Identify(ctx context.Context, userID uint) (*Actor, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(CodeUnauthenticated, "用戶不存在")
	}
	if err != nil {
		return nil, internalError("讀取用戶失敗", err)
	}
	if user.IsDisabled {
		return nil, forbiddenError("帳號已被停用")
	}
	return &Actor{ID: user.ID, Role: user.Role}, nil
}

// ParseToken 驗證 bearer token 並回傳其中的用戶 ID
func (s *UserService) ParseToken(token string) (uint, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return 0, &Error{Code: CodeUnauthenticated, Message: "無效的 token", Err: err}
	}
	return claims.UserID, nil
}

func (s *UserService) Me(ctx context.Context, actor *Actor) (*models.User, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, storeError(err, "用戶不存在", "讀取用戶失敗")
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, actor *Actor) ([]models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, internalError("讀取用戶列表失敗", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, actor *Actor, id uint) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "用戶不存在", "讀取用戶失敗")
	}
	return user, nil
}

type CreateUserInput struct {
	OpenID   string
	Name     string
	Email    string
	Phone    string
	Role     models.UserRole
	Password string
}

// Create 管理員建立用戶，外部身份 ID 必須唯一
func (s *UserService) Create(ctx context.Context, actor *Actor, input CreateUserInput) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	openID := utils.SanitizeInput(input.OpenID, 64)
	if openID == "" {
		return nil, validationError("用戶 ID 不能為空")
	}
	if input.Role == "" {
		input.Role = models.RoleUser
	}
	if !input.Role.Valid() {
		return nil, validationError("角色必須為 user、admin 或 auditor")
	}

	_, err := s.userRepo.FindByOpenID(ctx, openID)
	if err == nil {
		return nil, conflictError("用戶 ID 已存在")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, internalError("讀取用戶失敗", err)
	}

	user := &models.User{
		OpenID:       openID,
		Name:         utils.SanitizeInput(input.Name, 100),
		Email:        strings.ToLower(utils.SanitizeInput(input.Email, 320)),
		Phone:        utils.SanitizeInput(input.Phone, 20),
		Role:         input.Role,
		LastSignedIn: s.now(),
	}
	if input.Password != "" {
		if len(input.Password) < minPasswordLength {
			return nil, validationError("密碼長度至少 6 個字元")
		}
		hash, err := utils.HashPassword(input.Password)
		if err != nil {
			return nil, internalError("密碼加密失敗", err)
		}
		user.PasswordHash = hash
		user.LoginMethod = loginMethodLocal
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storeError(err, "", "用戶 ID 已存在")
	}
	return user, nil
}

type UpdateUserInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Role     *models.UserRole
	Password *string
}

func (s *UserService) Update(ctx context.Context, actor *Actor, id uint, input UpdateUserInput) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return storeError(err, "用戶不存在", "讀取用戶失敗")
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = utils.SanitizeInput(*input.Name, 100)
	}
	if input.Email != nil {
		fields["email"] = strings.ToLower(utils.SanitizeInput(*input.Email, 320))
	}
	if input.Phone != nil {
		fields["phone"] = utils.SanitizeInput(*input.Phone, 20)
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return validationError("角色必須為 user、admin 或 auditor")
		}
		fields["role"] = *input.Role
	}
	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return validationError("密碼長度至少 6 個字元")
		}
		hash, err := utils.HashPassword(*input.Password)
		if err != nil {
			return internalError("密碼加密失敗", err)
		}
		fields["password_hash"] = hash
	}
	if len(fields) == 0 {
		return nil
	}

	if _, err := s.userRepo.Update(ctx, id, fields); err != nil {
		return internalError("更新用戶失敗", err)
	}
	return nil
}

// Delete 不會連帶刪除該用戶的歷史紀錄與諧音
func (s *UserService) Delete(ctx context.Context, actor *Actor, id uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == id {
		return forbiddenError("不能刪除自己的帳號")
	}
	n, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return internalError("刪除用戶失敗", err)
	}
	if n == 0 {
		return notFoundError("用戶不存在")
	}
	return nil
}

// ToggleDisabled 切換停用狀態並回傳新的狀態
func (s *UserService) ToggleDisabled(ctx context.Context, actor *Actor, id uint) (bool, error) {
	if err := requireAdmin(actor); err != nil {
		return false, err
	}
	if actor.ID == id {
		return false, forbiddenError("不能停用自己的帳號")
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return false, storeError(err, "用戶不存在", "讀取用戶失敗")
	}
	disabled := !user.IsDisabled
	if _, err := s.userRepo.SetDisabled(ctx, id, disabled); err != nil {
		return false, internalError("更新用戶狀態失敗", err)
	}
	return disabled, nil
}
