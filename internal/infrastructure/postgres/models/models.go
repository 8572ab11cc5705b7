package models

// All lists every table for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&PartnerModel{},
		&CaseModel{},
		&SettlementModel{},
		&DepositTransactionModel{},
		&CaseEventModel{},
	}
}
