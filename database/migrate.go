package database

import (
	"fmt"

	"schoolfees-backend/models"

	"gorm.io/gorm"
)

// MigrateTenantSchema applies (idempotent) schema migrations for a single
// school schema. It pins search_path to the tenant and performs:
// - AutoMigrate (tables/columns)
// - Money column types (NUMERIC(12,2))
// - Indexes (demands, payments, receipts)
// - Foreign keys: fee_demands -> fee_structures, payments -> fee_demands
// - CHECK constraints backing the demand/balance invariants
// - Idempotency keys table + unique index
func MigrateTenantSchema(schema string) error {
	if schema == "" {
		return fmt.Errorf("schema name is empty")
	}

	return DB.Transaction(func(tx *gorm.DB) error {
		// Pin the tenant schema for this transaction
		if err := tx.Exec(`SET search_path = "` + schema + `", public`).Error; err != nil {
			return fmt.Errorf("set search_path failed: %w", err)
		}

		// --- AutoMigrate tables/columns/index tags (non-destructive) ---
		if err := tx.AutoMigrate(
			&models.Student{},
			&models.Guardian{},
			&models.FeeCategory{},
			&models.FeeStructure{},
			&models.FeeDemand{},
			&models.Payment{},
			&models.FeeReceipt{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("tenant automigrate failed: %w", err)
		}

		// --- Enforce money columns as NUMERIC(12,2) (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE fee_structures ALTER COLUMN amount          TYPE numeric(12,2)`,
			`ALTER TABLE fee_demands    ALTER COLUMN original_amount TYPE numeric(12,2)`,
			`ALTER TABLE fee_demands    ALTER COLUMN discount_amount TYPE numeric(12,2)`,
			`ALTER TABLE fee_demands    ALTER COLUMN demand_amount   TYPE numeric(12,2)`,
			`ALTER TABLE fee_demands    ALTER COLUMN paid_amount     TYPE numeric(12,2)`,
			`ALTER TABLE fee_demands    ALTER COLUMN balance_amount  TYPE numeric(12,2)`,
			`ALTER TABLE payments       ALTER COLUMN amount          TYPE numeric(12,2)`,
			`ALTER TABLE fee_receipts   ALTER COLUMN total_amount    TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Composite / helpful indexes (idempotent) ---
		indexes := []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_fee_demands_student_structure_year ON fee_demands (student_id, fee_structure_id, academic_year)`,
			`CREATE INDEX IF NOT EXISTS idx_payments_demand_date ON payments (fee_demand_id, payment_date)`,
			`CREATE INDEX IF NOT EXISTS idx_fee_receipts_student_date ON fee_receipts (student_id, payment_date)`,
			`CREATE INDEX IF NOT EXISTS idx_fee_structures_grade_active ON fee_structures (grade, active)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Foreign keys (RESTRICT/RESTRICT) ---
		fks := []string{
			`
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1
		FROM pg_constraint
		WHERE conrelid = 'fee_demands'::regclass
		  AND conname  = 'fk_fee_demands_structure'
	) THEN
		ALTER TABLE fee_demands
		ADD CONSTRAINT fk_fee_demands_structure
		FOREIGN KEY (fee_structure_id)
		REFERENCES fee_structures(id)
		ON UPDATE RESTRICT
		ON DELETE RESTRICT;
	END IF;
END $$;`,
			`
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1
		FROM pg_constraint
		WHERE conrelid = 'payments'::regclass
		  AND conname  = 'fk_payments_demand'
	) THEN
		ALTER TABLE payments
		ADD CONSTRAINT fk_payments_demand
		FOREIGN KEY (fee_demand_id)
		REFERENCES fee_demands(id)
		ON UPDATE RESTRICT
		ON DELETE RESTRICT;
	END IF;
END $$;`,
		}
		for _, stmt := range fks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("foreign key migration failed: %w", err)
			}
		}

		// --- CHECK constraints backing the money invariants (idempotent) ---
		checks := []string{
			// demand_amount = original_amount - discount_amount
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'fee_demands'::regclass
					  AND conname  = 'chk_fee_demands_demand_amount'
				) THEN
					ALTER TABLE fee_demands
					ADD CONSTRAINT chk_fee_demands_demand_amount
					CHECK (demand_amount = original_amount - discount_amount);
				END IF;
			END $$;`,
			// balance never negative
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'fee_demands'::regclass
					  AND conname  = 'chk_fee_demands_balance_nonneg'
				) THEN
					ALTER TABLE fee_demands
					ADD CONSTRAINT chk_fee_demands_balance_nonneg
					CHECK (balance_amount >= 0);
				END IF;
			END $$;`,
			// payments strictly positive
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'payments'::regclass
					  AND conname  = 'chk_payments_amount_positive'
				) THEN
					ALTER TABLE payments
					ADD CONSTRAINT chk_payments_amount_positive
					CHECK (amount > 0);
				END IF;
			END $$;`,
			// structure amounts non-negative
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'fee_structures'::regclass
					  AND conname  = 'chk_fee_structures_amount_nonneg'
				) THEN
					ALTER TABLE fee_structures
					ADD CONSTRAINT chk_fee_structures_amount_nonneg
					CHECK (amount >= 0);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
