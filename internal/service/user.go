package service

import (
	"context"
	"errors"
	"time"

	"signalbridge/conf"
	"signalbridge/internal/consts"
	"signalbridge/internal/dao"
	"signalbridge/internal/model"
	"signalbridge/internal/model/entity"
	pkgerrors "signalbridge/pkg/errors"
	"signalbridge/pkg/errors/ecode"
	"signalbridge/pkg/jwt"
	"signalbridge/utils"

	"golang.org/x/crypto/bcrypt"
)

// UserService 注册、登录、webhook secret管理
type UserService struct {
	users dao.UserDao
}

func NewUserService(ud dao.UserDao) *UserService {
	return &UserService{users: ud}
}

func (s *UserService) Register(ctx context.Context, req *model.RegisterReq) (*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Email:         req.Email,
		Username:      req.Username,
		PasswordHash:  string(hash),
		WebhookSecret: utils.RandString(consts.SecretLength),
		IsActive:      true,
	}
	if err := s.users.UserCreate(ctx, user); err != nil {
		if errors.Is(err, dao.ErrDuplicate) {
			return nil, pkgerrors.WithCode(ecode.ValidateErr, "email already registered")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Login(ctx context.Context, req *model.LoginReq) (*model.LoginRes, error) {
	user, err := s.users.UserGetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, pkgerrors.WithCode(ecode.RequireAuthErr, "invalid email or password")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, pkgerrors.WithCode(ecode.RequireAuthErr, "account disabled")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, pkgerrors.WithCode(ecode.RequireAuthErr, "invalid email or password")
	}

	ttl := time.Duration(conf.AppConfig.Jwt.JwtTtl) * time.Second
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	claims := jwt.BuildClaims(time.Now().Add(ttl), user.ID)
	token, err := jwt.GenToken(claims, conf.AppConfig.Jwt.Secret)
	if err != nil {
		return nil, err
	}
	return &model.LoginRes{Token: token, ExpiresIn: int64(ttl.Seconds())}, nil
}

func (s *UserService) Info(ctx context.Context, userID string) (*model.UserInfoRes, error) {
	user, err := s.users.UserGetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.UserInfoRes{
		ID:            user.ID,
		Email:         user.Email,
		Username:      user.Username,
		WebhookSecret: user.WebhookSecret,
		IsActive:      user.IsActive,
	}, nil
}

// RegenerateWebhookSecret 旧secret立即失效，TradingView侧需要同步更新
func (s *UserService) RegenerateWebhookSecret(ctx context.Context, userID string) (string, error) {
	secret := utils.RandString(consts.SecretLength)
	if err := s.users.UserUpdateWebhookSecret(ctx, userID, secret); err != nil {
		return "", err
	}
	return secret, nil
}

// AuthBySecret webhook入口鉴权。secret未知报未授权，文案不暴露用户存在性；
// 用户已停用报权限错误
func (s *UserService) AuthBySecret(ctx context.Context, secret string) (*entity.User, error) {
	user, err := s.users.UserGetByWebhookSecret(ctx, secret)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, pkgerrors.WithCode(ecode.RequireAuthErr, "Invalid webhook secret")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, pkgerrors.WithCode(ecode.PermissionErr, "User is disabled")
	}
	return user, nil
}
