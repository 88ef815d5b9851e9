package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-registration/config"
	"github.com/oksasatya/user-registration/internal/domain/entity"
	repo "github.com/oksasatya/user-registration/internal/domain/repository"
	"github.com/oksasatya/user-registration/internal/observability/metrics"
	"github.com/oksasatya/user-registration/pkg/mailer"
	mailtpl "github.com/oksasatya/user-registration/pkg/mailer/templates"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")

	// errTokenRedeemed rolls back a verification whose token was deleted
	// by a concurrent one.
	errTokenRedeemed = errors.New("token already redeemed")
)

// detailedError carries a caller-facing message and matches kind with errors.Is.
type detailedError struct {
	msg  string
	kind error
}

func (e *detailedError) Error() string { return e.msg }
func (e *detailedError) Unwrap() error { return e.kind }

func emailExists(email string) error {
	return &detailedError{msg: fmt.Sprintf("email %s already exists", email), kind: ErrEmailAlreadyExists}
}

func userNotFound(email string) error {
	return &detailedError{msg: fmt.Sprintf("no user exists with email %s", email), kind: ErrUserNotFound}
}

// EmailDispatcher queues an email job without waiting for delivery.
type EmailDispatcher interface {
	Dispatch(ctx context.Context, job mailer.EmailJob) error
}

// UserIndexer is the search projection of users.
type UserIndexer interface {
	IndexUser(ctx context.Context, u *entity.User) error
	Search(ctx context.Context, q string, size int) ([]map[string]any, error)
}

type Service struct {
	Store      repo.Store
	Dispatcher EmailDispatcher
	Index      UserIndexer
	Logger     *logrus.Logger
	Cfg        *config.Config
	Variant    mailer.Variant

	now func() time.Time
}

func NewService(store repo.Store, dispatcher EmailDispatcher, index UserIndexer, logger *logrus.Logger, cfg *config.Config) (*Service, error) {
	variant, err := mailer.ParseVariant(cfg.EmailVariant)
	if err != nil {
		return nil, err
	}
	return &Service{
		Store:      store,
		Dispatcher: dispatcher,
		Index:      index,
		Logger:     logger,
		Cfg:        cfg,
		Variant:    variant,
		now:        time.Now,
	}, nil
}

type RegisterInput struct {
	Name      string
	Email     string
	IP        string
	UserAgent string
}

// Register creates a disabled user together with its confirmation token and
// queues the verification email once both are committed.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	var (
		user *entity.User
		conf *entity.Confirmation
	)
	err := s.Store.WithTx(ctx, func(tx repo.Tx) error {
		exists, err := tx.Users().ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return emailExists(email)
		}

		u := &entity.User{Name: name, Email: email, Enabled: false}
		if err := tx.Users().Create(ctx, u); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return emailExists(email)
			}
			return err
		}
		c := entity.NewConfirmation(u)
		if err := tx.Confirmations().Create(ctx, c); err != nil {
			return err
		}
		user, conf = u, c
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return nil, err
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		s.log().WithError(err).WithField("email", email).Error("register user failed")
		return nil, fmt.Errorf("register user: %w", err)
	}
	metrics.RegistrationsTotal.WithLabelValues("created").Inc()

	s.sendVerification(ctx, user, conf.Token, in)
	s.index(ctx, user)
	return user, nil
}

func (s *Service) sendVerification(ctx context.Context, u *entity.User, token string, in RegisterInput) {
	log := s.log().WithFields(logrus.Fields{"user_id": u.ID, "variant": s.Variant})
	if !s.Cfg.MailSendEnabled {
		log.Debug("mail sending disabled, verification email skipped")
		return
	}

	link := mailtpl.VerificationURL(s.Cfg.VerifyHost, token)
	job := mailer.EmailJob{
		To:       u.Email,
		Variant:  s.Variant,
		Template: mailtpl.VerifyAccount,
		Data: mailtpl.NewVerifyAccountData(s.Cfg, u.Name, u.Email, link,
			mailtpl.WithIP(in.IP),
			mailtpl.WithUserAgent(in.UserAgent),
			mailtpl.WithTime(s.clock()),
		),
	}
	switch s.Variant {
	case mailer.MimeAttachments, mailer.MimeEmbedded:
		job.Attachments = s.Cfg.Attachments()
	case mailer.HTMLInlineImage:
		job.InlineImage = s.Cfg.EmailInlineImage
	}

	if err := s.Dispatcher.Dispatch(ctx, job); err != nil {
		metrics.EmailsTotal.WithLabelValues(string(s.Variant), "dispatch_failed").Inc()
		log.WithError(err).Warn("dispatch verification email failed")
		return
	}
	metrics.EmailsTotal.WithLabelValues(string(s.Variant), "enqueued").Inc()
}

// VerifyToken redeems a confirmation token. Unknown tokens report false and
// change nothing; a redeemed token is deleted so it cannot be used twice.
func (s *Service) VerifyToken(ctx context.Context, token string) (bool, error) {
	if strings.TrimSpace(token) == "" {
		metrics.VerificationsTotal.WithLabelValues("unknown_token").Inc()
		return false, nil
	}

	var user *entity.User
	err := s.Store.WithTx(ctx, func(tx repo.Tx) error {
		c, err := tx.Confirmations().GetByToken(ctx, token)
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if c.User == nil {
			return userNotFound("")
		}

		u, err := tx.Users().GetByEmailIgnoreCase(ctx, c.User.Email)
		if errors.Is(err, repo.ErrNotFound) {
			return userNotFound(c.User.Email)
		}
		if err != nil {
			return err
		}
		u.Enabled = true
		if err := tx.Users().Update(ctx, u); err != nil {
			return err
		}
		if err := tx.Confirmations().Delete(ctx, c.ID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return errTokenRedeemed
			}
			return err
		}
		user = u
		return nil
	})
	if errors.Is(err, errTokenRedeemed) {
		// another request consumed the token first; this one rolled back
		metrics.VerificationsTotal.WithLabelValues("unknown_token").Inc()
		return false, nil
	}
	if err != nil {
		metrics.VerificationsTotal.WithLabelValues("error").Inc()
		s.log().WithError(err).Error("verify token failed")
		if errors.Is(err, ErrUserNotFound) {
			return false, err
		}
		return false, fmt.Errorf("verify token: %w", err)
	}
	if user == nil {
		metrics.VerificationsTotal.WithLabelValues("unknown_token").Inc()
		return false, nil
	}

	metrics.VerificationsTotal.WithLabelValues("verified").Inc()
	s.index(ctx, user)
	return true, nil
}

// SearchUsers queries the search projection; it is empty when none is configured.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.Index == nil {
		return []map[string]any{}, nil
	}
	return s.Index.Search(ctx, q, size)
}

func (s *Service) index(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexUser(ctx, u); err != nil {
		s.log().WithError(err).WithField("user_id", u.ID).Warn("es index failed")
	}
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

func (s *Service) log() *logrus.Logger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}
