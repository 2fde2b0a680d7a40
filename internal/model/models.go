package model

// All 返回需要建表的全部模型，顺序即依赖顺序
func All() []interface{} {
	return []interface{}{
		&User{},
		&AuthToken{},
		&Department{},
		&Achievement{},
		&Employee{},
		&AchievementAward{},
	}
}
