package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrConfig = errors.New("configuration error")

const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreSQLite   = "sqlite"
	StoreMemory   = "memory"

	CDNCloudinary = "cloudinary"
	CDNS3         = "s3"
)

type Config struct {
	Port       string
	AdminToken string

	LogLevel  string
	LogFormat string
	AppName   string
	LogDir    string

	Store StoreConfig
	Sheet SheetConfig
	Drive DriveConfig
	CDN   CDNConfig
	TG    TelegramConfig

	ImageConcurrency int
	HTTPTimeout      time.Duration
}

type StoreConfig struct {
	Driver      string
	PostgresDSN string
	MongoURI    string
	MongoDB     string
	SQLitePath  string
}

type SheetConfig struct {
	ID     string
	Range  string
	Render string
	APIKey string
}

type DriveConfig struct {
	CredentialsFile string
	FolderID        string
	Recursive       bool
	PageSize        int64
	RPS             float64
}

type CDNConfig struct {
	Provider string
	Folder   string

	CloudName string
	APIKey    string
	APISecret string

	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3Bucket        string
	S3Region        string
	S3PublicBaseURL string
}

type TelegramConfig struct {
	Token  string
	ChatID int64
	Silent bool
}

// LoadEnvFiles carga .env/.env.local sin pisar el entorno real (p.ej. Docker).
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// FromEnv arma la config; errores de formato se devuelven envueltos en ErrConfig.
// Los campos obligatorios se chequean en Validate (antes de procesar filas).
func FromEnv() (Config, error) {
	var errs []error

	c := Config{
		Port:       getEnv("PORT", "8080"),
		AdminToken: strings.TrimSpace(os.Getenv("ADMIN_TOKEN")),
		LogLevel:   os.Getenv("LOG_LEVEL"),
		LogFormat:  os.Getenv("LOG_FORMAT"),
		AppName:    getEnv("APP_NAME", "pet-registry"),
		LogDir:     getEnv("LOG_DIR", "logs"),
		Store: StoreConfig{
			Driver:      strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
			PostgresDSN: os.Getenv("DB_DSN"),
			MongoURI:    os.Getenv("MONGO_URI"),
			MongoDB:     getEnv("MONGO_DB", "pet_registry"),
			SQLitePath:  getEnv("SQLITE_PATH", "pets.sqlite"),
		},
		Sheet: SheetConfig{
			ID:     strings.TrimSpace(os.Getenv("SHEET_ID")),
			Range:  getEnv("SHEET_RANGE", "Sheet1!A1:Z"),
			Render: getEnv("SHEET_RENDER", "FORMATTED_VALUE"),
			APIKey: os.Getenv("GOOGLE_API_KEY"),
		},
		Drive: DriveConfig{
			CredentialsFile: strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
			FolderID:        strings.TrimSpace(os.Getenv("DRIVE_FOLDER_ID")),
		},
		CDN: CDNConfig{
			Provider:        strings.ToLower(getEnv("CDN_PROVIDER", CDNCloudinary)),
			Folder:          getEnv("CDN_FOLDER", "SMBullyCamp"),
			CloudName:       os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:          os.Getenv("CLOUDINARY_API_KEY"),
			APISecret:       os.Getenv("CLOUDINARY_API_SECRET"),
			S3Endpoint:      os.Getenv("S3_ENDPOINT"),
			S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
			S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
			S3Bucket:        os.Getenv("S3_BUCKET"),
			S3Region:        os.Getenv("S3_REGION"),
			S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
		},
		TG: TelegramConfig{
			Token: strings.TrimSpace(os.Getenv("TG_BOT_TOKEN")),
		},
	}

	var err error
	if c.Drive.Recursive, err = envBool("DRIVE_RECURSIVE", true); err != nil {
		errs = append(errs, err)
	}
	if c.Drive.PageSize, err = envInt64("DRIVE_LIST_PAGESIZE", 1000); err != nil {
		errs = append(errs, err)
	}
	if c.Drive.RPS, err = envFloat("DRIVE_RPS", 10); err != nil {
		errs = append(errs, err)
	}
	if c.TG.Silent, err = envBool("TG_SILENT", false); err != nil {
		errs = append(errs, err)
	}
	if c.TG.ChatID, err = envInt64("TG_CHAT_ID", 0); err != nil {
		errs = append(errs, err)
	}
	conc, err := envInt64("IMAGE_CONCURRENCY", 4)
	if err != nil {
		errs = append(errs, err)
	}
	c.ImageConcurrency = int(conc)
	if c.HTTPTimeout, err = envDuration("HTTP_TIMEOUT", 60*time.Second); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return c, fmt.Errorf("%w: %w", ErrConfig, errors.Join(errs...))
	}
	return c, nil
}

// Validate chequea lo necesario para una corrida de sync.
// Todo error acá es fatal y ocurre antes de procesar cualquier fila.
func (c Config) Validate() error {
	var missing []string

	if c.Sheet.ID == "" {
		missing = append(missing, "SHEET_ID")
	}
	if c.Drive.CredentialsFile == "" {
		missing = append(missing, "GOOGLE_APPLICATION_CREDENTIALS")
	}
	if c.Drive.FolderID == "" {
		missing = append(missing, "DRIVE_FOLDER_ID")
	}

	switch c.Store.Driver {
	case StorePostgres:
		if c.Store.PostgresDSN == "" {
			missing = append(missing, "DB_DSN")
		}
	case StoreMongo:
		if c.Store.MongoURI == "" {
			missing = append(missing, "MONGO_URI")
		}
	case StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("%w: unknown STORE_DRIVER %q", ErrConfig, c.Store.Driver)
	}

	switch c.CDN.Provider {
	case CDNCloudinary:
		if c.CDN.CloudName == "" || c.CDN.APIKey == "" || c.CDN.APISecret == "" {
			missing = append(missing, "CLOUDINARY_CLOUD_NAME/CLOUDINARY_API_KEY/CLOUDINARY_API_SECRET")
		}
	case CDNS3:
		if c.CDN.S3Endpoint == "" || c.CDN.S3Bucket == "" || c.CDN.S3AccessKey == "" || c.CDN.S3SecretKey == "" {
			missing = append(missing, "S3_ENDPOINT/S3_BUCKET/S3_ACCESS_KEY/S3_SECRET_KEY")
		}
	default:
		return fmt.Errorf("%w: unknown CDN_PROVIDER %q", ErrConfig, c.CDN.Provider)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrConfig, strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func envInt64(key string, def int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
