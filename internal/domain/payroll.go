package domain

// Payslip aligns with the hosted `payslips` table.
type Payslip struct {
	ID            string  `json:"id"`
	ClientID      string  `json:"client_id"`
	StaffID       string  `json:"staff_id"`
	EmployeeID    string  `json:"employee_id,omitempty"`
	Month         int     `json:"month"` // 0-11, frontend convention
	Year          int     `json:"year"`
	BasicSalary   float64 `json:"basic_salary"`
	Allowances    float64 `json:"allowances"`
	Deductions    float64 `json:"deductions"`
	NetSalary     float64 `json:"net_salary"`
	PaymentStatus string  `json:"payment_status"` // pending | processed
	GeneratedAt   string  `json:"generated_at,omitempty"`
}

// LeaveBalance aligns with the hosted `leave_balances` table.
type LeaveBalance struct {
	ID         string `json:"id"`
	ClientID   string `json:"client_id"`
	StaffID    string `json:"staff_id"`
	Casual     int    `json:"casual"`
	Sick       int    `json:"sick"`
	Earned     int    `json:"earned"`
	CasualUsed int    `json:"casual_used"`
	SickUsed   int    `json:"sick_used"`
	EarnedUsed int    `json:"earned_used"`
}
