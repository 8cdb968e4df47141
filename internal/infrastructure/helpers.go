package infrastructure

import "github.com/DRSN-tech/recipe-cart/pkg/e"

// GetExtensionFromMIME возвращает расширение файла по MIME-типу обложки.
// Поддерживаются jpeg, png и webp.
func GetExtensionFromMIME(mime string) (string, error) {
	switch mime {
	case "image/jpeg", "image/jpg":
		return "jpg", nil
	case "image/png":
		return "png", nil
	case "image/webp":
		return "webp", nil
	default:
		return "", e.ErrUnsupportedMediaType
	}
}

// AllowedImageMIME сообщает, можно ли хранить изображение с таким MIME-типом.
func AllowedImageMIME(mime string) bool {
	_, err := GetExtensionFromMIME(mime)
	return err == nil
}
