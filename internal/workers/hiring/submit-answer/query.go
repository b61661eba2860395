package submitanswer

import (
	"strconv"
	"strings"

	"bfh-qualifier/internal/common/errors"
)

// QueryA answers odd registration numbers.
const QueryA = "SELECT p.AMOUNT AS SALARY, " +
	"CONCAT(e.FIRST_NAME, ' ', e.LAST_NAME) AS NAME, " +
	"TIMESTAMPDIFF(YEAR, e.DOB, CURDATE()) AS AGE, " +
	"d.DEPARTMENT_NAME " +
	"FROM PAYMENTS p " +
	"JOIN EMPLOYEE e ON p.EMP_ID = e.EMP_ID " +
	"JOIN DEPARTMENT d ON e.DEPARTMENT = d.DEPARTMENT_ID " +
	"WHERE DAY(p.PAYMENT_TIME) <> 1 " +
	"ORDER BY p.AMOUNT DESC " +
	"LIMIT 1;"

// DeriveAnswerQuery picks the answer from the parity of the last two digits
// of regNo. Non-digit characters are ignored. Even numbers use evenQuery,
// and fail with UNSUPPORTED_PARITY when it is empty.
func DeriveAnswerQuery(regNo, evenQuery string) (string, error) {
	digits := extractDigits(regNo)
	if len(digits) < 2 {
		return "", errors.NewInvalidRegistrationNumberError(regNo)
	}

	lastTwo := digits[len(digits)-2:]
	n, err := strconv.Atoi(lastTwo)
	if err != nil {
		return "", errors.NewInvalidRegistrationNumberError(regNo)
	}

	if n%2 == 1 {
		return QueryA, nil
	}
	if evenQuery != "" {
		return evenQuery, nil
	}
	return "", errors.NewUnsupportedParityError(lastTwo)
}

func extractDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
