package model

import "fmt"

// EditType область применения правки или удаления в серии
type EditType string

const (
	EditSingle    EditType = "single"    // только выбранное вхождение
	EditFollowing EditType = "following" // выбранное и все последующие по цепочке
	EditAll       EditType = "all"       // вся цепочка от корня
)

// ParseEditType разбирает тип редактирования
func ParseEditType(s string) (EditType, error) {
	switch EditType(s) {
	case EditSingle, EditFollowing, EditAll:
		return EditType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidEditType, s)
	}
}
