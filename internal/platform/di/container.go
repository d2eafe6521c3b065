// internal/platform/di/container.go
package di

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	httpin "stoky/internal/adapters/in/http"
	fsrepo "stoky/internal/adapters/out/firestore"
	"stoky/internal/adapters/out/gcs"
	"stoky/internal/adapters/out/identity"
	"stoky/internal/adapters/out/mail"
	"stoky/internal/adapters/out/postgres"
	uc "stoky/internal/application/usecase"
	appcfg "stoky/internal/infra/config"
	"stoky/internal/infra/crypto"
	"stoky/internal/infra/database"
	firestoreinfra "stoky/internal/infra/firestore"
)

// Container owns the external clients and wires the POS usecases.
//
// Init policy (mirrors what each feature needs):
// - Firestore: strict (nothing works without the document store)
// - Firebase Auth: best-effort (email login still works; Google login and
//   the selling routes stay unmounted)
// - SendGrid / GCS / Postgres mirror: best-effort extras
type Container struct {
	Config    *appcfg.Config
	ProjectID string

	Firestore    *firestore.Client
	FirebaseAuth *firebaseauth.Client
	GCS          *storage.Client
	ReportingDB  *database.DB

	UserRepo    *fsrepo.UserRepositoryFS
	ProductRepo *fsrepo.ProductRepositoryFS
	SaleRepo    *fsrepo.SaleRepositoryFS

	AuthUC     *uc.AuthUsecase
	CatalogUC  *uc.CatalogUsecase
	CheckoutUC *uc.CheckoutUsecase
	ReportUC   *uc.ReportUsecase
}

// NewContainer initializes clients, repositories and usecases.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg := appcfg.Load()
	if cfg == nil {
		return nil, errors.New("di: config is nil")
	}

	c := &Container{
		Config:    cfg,
		ProjectID: cfg.FirestoreProjectID,
	}
	if c.ProjectID == "" {
		return nil, errors.New("di: projectID is empty (set FIRESTORE_PROJECT_ID or GCP_PROJECT_ID)")
	}

	// Credentials file (optional; mainly for local dev)
	credFile := strings.TrimSpace(cfg.FirestoreCredentialsFile)
	if credFile == "" {
		credFile = strings.TrimSpace(cfg.GCPCreds)
	}
	var clientOpts []option.ClientOption
	if credFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credFile))
		log.Printf("[di] using credentials file for GCP clients")
	} else {
		log.Printf("[di] using Application Default Credentials")
	}

	// 1) Firestore (strict)
	{
		fsWrapper, err := firestoreinfra.NewClient(ctx, c.ProjectID, credFile)
		if err != nil {
			return nil, fmt.Errorf("di: firestore init failed (project=%s): %w", c.ProjectID, err)
		}
		if err := fsWrapper.Ping(ctx); err != nil {
			log.Printf("[di] WARN: firestore ping failed: %v", err)
		}
		c.Firestore = fsWrapper.Client
	}

	// 2) Firebase Auth (best-effort)
	{
		fbCfg := &firebase.Config{ProjectID: cfg.FirebaseProjectID}
		fbApp, err := firebase.NewApp(ctx, fbCfg, clientOpts...)
		if err != nil {
			log.Printf("[di] WARN: firebase app init failed: %v", err)
		} else {
			authClient, err := fbApp.Auth(ctx)
			if err != nil {
				log.Printf("[di] WARN: firebase auth init failed: %v", err)
			} else {
				c.FirebaseAuth = authClient
				log.Printf("[di] Firebase Auth initialized")
			}
		}
	}

	// 3) SendGrid key: env first, Secret Manager second (best-effort)
	sendgridKey := strings.TrimSpace(cfg.SendGridAPIKey)
	if sendgridKey == "" && cfg.SendGridSecretName != "" {
		sendgridKey = resolveSecret(ctx, c.ProjectID, cfg.SendGridSecretName, clientOpts)
	}

	// 4) GCS (best-effort; only the report export needs it)
	if cfg.ReportBucket != "" {
		gcsClient, err := storage.NewClient(ctx, clientOpts...)
		if err != nil {
			log.Printf("[di] WARN: storage.NewClient failed: %v (report export disabled)", err)
		} else {
			c.GCS = gcsClient
			log.Printf("[di] GCS storage client initialized bucket=%s", cfg.ReportBucket)
		}
	} else {
		log.Printf("[di] report export not configured (SALES_REPORT_BUCKET empty)")
	}

	// 5) Postgres reporting mirror (best-effort, env-gated)
	var mirror uc.ReportMirror
	if cfg.PGHost != "" {
		db, err := database.NewConnection(cfg.PGHost, cfg.PGPort, cfg.PGUser, cfg.PGPassword, cfg.PGDatabase)
		if err != nil {
			log.Printf("[di] WARN: reporting DB unavailable: %v (mirror disabled)", err)
		} else {
			c.ReportingDB = db
			pgRepo := postgres.NewSaleReportRepositoryPG(db.Client)
			if err := pgRepo.EnsureSchema(ctx); err != nil {
				log.Printf("[di] WARN: reporting schema init failed: %v (mirror disabled)", err)
			} else {
				mirror = pgRepo
			}
		}
	} else {
		log.Printf("[di] reporting mirror not configured (PG_HOST empty)")
	}

	// Repositories
	c.UserRepo = fsrepo.NewUserRepositoryFS(c.Firestore)
	c.ProductRepo = fsrepo.NewProductRepositoryFS(c.Firestore)
	c.SaleRepo = fsrepo.NewSaleRepositoryFS(c.Firestore)

	// Outbound services
	var mailer uc.ReceiptMailer
	if sendgridKey != "" {
		mailer = mail.NewReceiptMailer(mail.NewSendGridClient(sendgridKey), cfg.ReceiptFromAddress)
	} else {
		log.Printf("[di] receipt mail not configured (no SendGrid key)")
	}

	var verifier uc.GoogleTokenVerifier
	if c.FirebaseAuth != nil {
		verifier = identity.NewFirebaseVerifier(c.FirebaseAuth)
	}

	// Usecases
	c.AuthUC = uc.NewAuthUsecase(c.UserRepo, crypto.NewPBKDF2Hasher(), verifier)
	c.CatalogUC = uc.NewCatalogUsecase(c.ProductRepo)
	c.CheckoutUC = uc.NewCheckoutUsecase(c.SaleRepo, c.ProductRepo, mailer, mirror)
	if c.GCS != nil {
		c.ReportUC = uc.NewReportUsecase(c.SaleRepo, gcs.NewSalesReportGCS(c.GCS, cfg.ReportBucket))
	}

	return c, nil
}

// RouterDeps exposes the wiring the HTTP router needs.
func (c *Container) RouterDeps() httpin.RouterDeps {
	return httpin.RouterDeps{
		AuthUC:       c.AuthUC,
		CatalogUC:    c.CatalogUC,
		CheckoutUC:   c.CheckoutUC,
		ReportUC:     c.ReportUC,
		UserRepo:     c.UserRepo,
		FirebaseAuth: c.FirebaseAuth,
	}
}

// Close releases owned clients.
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.Firestore != nil {
		_ = c.Firestore.Close()
	}
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
	if c.ReportingDB != nil {
		_ = c.ReportingDB.Close()
	}
}

// resolveSecret reads the latest version of a Secret Manager secret.
// Failures only log; the dependent feature stays disabled.
func resolveSecret(ctx context.Context, projectID, name string, opts []option.ClientOption) string {
	sm, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		log.Printf("[di] WARN: secretmanager.NewClient failed: %v", err)
		return ""
	}
	defer func() { _ = sm.Close() }()

	resp, err := sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, name),
	})
	if err != nil {
		log.Printf("[di] WARN: secret %q not readable: %v", name, err)
		return ""
	}
	return strings.TrimSpace(string(resp.GetPayload().GetData()))
}
