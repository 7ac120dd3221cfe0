// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель — упростить формирование структурированных полей лога
// и не допустить утечки персональных данных участников в логи.
package sl

import (
	"log/slog"
	"strings"
)

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Email возвращает slog.Attr с замаскированным email.
// В лог попадает только первый символ локальной части и домен,
// например "j***@example.com".
func Email(email string) slog.Attr {
	masked := "***"
	if at := strings.IndexByte(email, '@'); at > 0 {
		masked = email[:1] + "***" + email[at:]
	}
	return slog.Attr{
		Key:   "email",
		Value: slog.StringValue(masked),
	}
}
