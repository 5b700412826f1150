package model

type RegisterReq struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRes struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// UserInfoRes webhook secret只展示给本人
type UserInfoRes struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	WebhookSecret string `json:"webhook_secret"`
	IsActive      bool   `json:"is_active"`
}
