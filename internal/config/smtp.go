package config

// SMTPConfig carries the settings for the outgoing mail server used by the
// newsletter and order notification consumer.  Mail is optional: when
// SMTP_HOST is unset, the consumer logs messages instead of sending them.
type SMTPConfig struct {
    Host       string
    Port       int
    Username   string
    Password   string
    AuthType   string // NONE | PLAIN | LOGIN
    Encryption string // NONE | SSL | SSLTLS | TLS | STARTTLS
    NoTLSCheck bool
    FromName   string
    From       string
}

// LoadSMTPConfig reads SMTP settings from environment variables.
func LoadSMTPConfig() SMTPConfig {
    return SMTPConfig{
        Host:       getenv("SMTP_HOST", ""),
        Port:       atoi(getenv("SMTP_PORT", "465")),
        Username:   getenv("SMTP_USERNAME", ""),
        Password:   getenv("SMTP_PASSWORD", ""),
        AuthType:   getenv("SMTP_AUTH_TYPE", "PLAIN"),
        Encryption: getenv("SMTP_ENCRYPTION", "SSL"),
        NoTLSCheck: getenv("SMTP_NO_TLS_CHECK", "false") == "true",
        FromName:   getenv("EMAIL_FROM_NAME", "Record Store"),
        From:       getenv("EMAIL_FROM_ADDRESS", ""),
    }
}
