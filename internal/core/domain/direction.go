package domain

// BalanceOperation is the kind of money movement applied to a single account.
type BalanceOperation string

const (
	OperationIncome  BalanceOperation = "income"
	OperationExpense BalanceOperation = "expense"
)

// Direction returns the sign (+1 or -1) a movement of the given operation has on the balance of an account of the
// given type. Income grows a cash balance and shrinks a debt; expense does the opposite.
// It returns 0 for an unknown type or operation.
func Direction(accountType AccountType, op BalanceOperation) int64 {
	var sign int64
	switch op {
	case OperationIncome:
		sign = 1
	case OperationExpense:
		sign = -1
	default:
		return 0
	}

	switch accountType {
	case Cash:
		return sign
	case Debt:
		return -sign
	default:
		return 0
	}
}
