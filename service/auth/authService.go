package authsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sophieemessing/video-store-consumer-api/model"
	staffrepo "github.com/sophieemessing/video-store-consumer-api/repository/staff"
	"github.com/sophieemessing/video-store-consumer-api/util/hash"
	jwtutil "github.com/sophieemessing/video-store-consumer-api/util/jwt"
)

type ErrCode string

const (
	ErrBadInput      ErrCode = "BAD_INPUT"
	ErrEmailTaken    ErrCode = "EMAIL_TAKEN"
	ErrUsernameTaken ErrCode = "USERNAME_TAKEN"
	ErrInvalidCreds  ErrCode = "INVALID_CREDENTIALS"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return string(e.code)
}
func (e codedError) Code() ErrCode { return e.code }

func makeErr(c ErrCode) error          { return codedError{code: c} }
func wrap(c ErrCode, msg string) error { return codedError{code: c, msg: msg} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Service interface {
	Register(ctx context.Context, req model.RegisterReq) (*model.Staff, string, error)
	Login(ctx context.Context, req model.LoginReq) (*model.Staff, string, error)
}

type service struct {
	sr     staffrepo.Repo
	secret string
}

func New(sr staffrepo.Repo, secret string) Service { return &service{sr: sr, secret: secret} }

func (s *service) Register(ctx context.Context, req model.RegisterReq) (*model.Staff, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	if email == "" || !strings.Contains(email, "@") || username == "" || len(req.Password) < 6 {
		return nil, "", makeErr(ErrBadInput)
	}

	if existing, err := s.sr.ByEmail(ctx, email); err != nil {
		return nil, "", err
	} else if existing != nil {
		return nil, "", wrap(ErrEmailTaken, fmt.Sprintf("email %s already registered", email))
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	st := &model.Staff{
		Email:        email,
		Username:     username,
		Role:         "staff",
		PasswordHash: hashed,
	}
	if err := s.sr.Create(ctx, st); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, "", derr
		}
		return nil, "", err
	}

	token, err := jwtutil.Issue(s.secret, st.ID, st.Role, 24)
	if err != nil {
		return nil, "", err
	}
	return st, token, nil
}

func mapDuplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		cn := strings.ToLower(pgErr.ConstraintName)
		msg := strings.ToLower(pgErr.Message)

		if strings.Contains(cn, "staff_email") || strings.Contains(msg, "email") {
			return makeErr(ErrEmailTaken)
		}
		if strings.Contains(cn, "staff_username") || strings.Contains(msg, "username") {
			return makeErr(ErrUsernameTaken)
		}
		return makeErr(ErrBadInput)
	}
	return nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.Staff, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, "", makeErr(ErrBadInput)
	}

	st, err := s.sr.ByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if st == nil || !hash.Check(st.PasswordHash, req.Password) {
		return nil, "", makeErr(ErrInvalidCreds)
	}

	token, err := jwtutil.Issue(s.secret, st.ID, st.Role, 24)
	if err != nil {
		return nil, "", err
	}
	return st, token, nil
}
