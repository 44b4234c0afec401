package model

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&Location{},
		&Exam{},
		&Registration{},
		&Payment{},
		&Result{},
		&Analytic{},
		&Notification{},
	}
}
