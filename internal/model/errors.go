package model

import "errors"

var (
	// ErrNotFound запись не найдена
	ErrNotFound = errors.New("not found")
	// ErrInvalidRule правило повторения имеет недопустимую форму
	ErrInvalidRule = errors.New("invalid recurrence rule")
	// ErrOutsideTripWindow дата вне окна поездки
	ErrOutsideTripWindow = errors.New("date is outside the trip window")
	// ErrChainIntegrity цепочка активностей повреждена (нет владельца или есть цикл)
	ErrChainIntegrity = errors.New("activity chain integrity violation")
	// ErrInvalidEditType неизвестный тип редактирования
	ErrInvalidEditType = errors.New("invalid edit type")
	// ErrInvalidTrip даты поездки заданы неверно
	ErrInvalidTrip = errors.New("invalid trip")
	// ErrInvalidChanges недопустимая правка активности
	ErrInvalidChanges = errors.New("invalid activity changes")
)
