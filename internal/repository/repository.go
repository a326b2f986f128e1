package repository

import (
	"database/sql"
	"errors"
)

// ErrNotFound is wrapped by every repository when the requested record is
// missing or belongs to another clinic. Worded so wrapped messages read
// "x not found: id '...' does not exist".
var ErrNotFound = errors.New("does not exist")

// Repositories bundles every store the HTTP layer needs. Postgres in
// production, memory when DB is disabled (dev mode and handler tests).
type Repositories struct {
	Clients      ClientsRepository
	Users        UsersRepository
	Patients     PatientsRepository
	Appointments AppointmentsRepository
	Staff        StaffRepository
	Inventory    InventoryRepository
	Billing      BillingRepository
	Leads        LeadsRepository
	Clinical     ClinicalRepository
	Procedures   ProceduresRepository
	Photos       PhotosRepository
	Payroll      PayrollRepository
	Logs         LogsRepository
	Support      SupportRepository
}

func NewPostgres(db *sql.DB) *Repositories {
	return &Repositories{
		Clients:      NewPostgresClientsRepository(db),
		Users:        NewPostgresUsersRepository(db),
		Patients:     NewPostgresPatientsRepository(db),
		Appointments: NewPostgresAppointmentsRepository(db),
		Staff:        NewPostgresStaffRepository(db),
		Inventory:    NewPostgresInventoryRepository(db),
		Billing:      NewPostgresBillingRepository(db),
		Leads:        NewPostgresLeadsRepository(db),
		Clinical:     NewPostgresClinicalRepository(db),
		Procedures:   NewPostgresProceduresRepository(db),
		Photos:       NewPostgresPhotosRepository(db),
		Payroll:      NewPostgresPayrollRepository(db),
		Logs:         NewPostgresLogsRepository(db),
		Support:      NewPostgresSupportRepository(db),
	}
}

// NewMemory wires the full memory set, used by dev mode and handler
// tests.
func NewMemory() *Repositories {
	return &Repositories{
		Clients:      NewMemoryClientsRepo(),
		Users:        NewMemoryUsersRepo(),
		Patients:     NewMemoryPatientsRepo(),
		Appointments: NewMemoryAppointmentsRepo(),
		Staff:        NewMemoryStaffRepo(),
		Inventory:    NewMemoryInventoryRepo(),
		Billing:      NewMemoryBillingRepo(),
		Leads:        NewMemoryLeadsRepo(),
		Clinical:     NewMemoryClinicalRepo(),
		Procedures:   NewMemoryProceduresRepo(),
		Photos:       NewMemoryPhotosRepo(),
		Payroll:      NewMemoryPayrollRepo(),
		Logs:         NewMemoryLogsRepo(),
		Support:      NewMemorySupportRepo(),
	}
}
