package enums

// AuditAction names the audit log entries written by mutating operations.
type AuditAction string

const (
	AuditActionLogin         AuditAction = "Login"
	AuditActionRegisterUser  AuditAction = "Register User"
	AuditActionDeleteUser    AuditAction = "Delete User"
	AuditActionCreateParty   AuditAction = "Create Party"
	AuditActionUpdateParty   AuditAction = "Update Party"
	AuditActionDeleteParty   AuditAction = "Delete Party"
	AuditActionCreateProduct AuditAction = "Create Product"
	AuditActionUpdateProduct AuditAction = "Update Product"
	AuditActionDeleteProduct AuditAction = "Delete Product"
	AuditActionCreateOrder   AuditAction = "Create Order"
	AuditActionUpdateOrder   AuditAction = "Update Order"
	AuditActionDeleteOrder   AuditAction = "Delete Order"
	AuditActionShipLine      AuditAction = "Ship Product"
	AuditActionCompleteOrder AuditAction = "Complete Order"
	AuditActionPendingOrder  AuditAction = "Pending Order"
)

func (a AuditAction) String() string {
	return string(a)
}
