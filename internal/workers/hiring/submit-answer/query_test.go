package submitanswer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bfh-qualifier/internal/common/errors"
)

func TestDeriveAnswerQuery(t *testing.T) {
	const queryB = "SELECT 2;"

	tests := []struct {
		name      string
		regNo     string
		evenQuery string
		want      string
		wantErr   error
	}{
		{name: "odd last two digits", regNo: "REG12347", want: QueryA},
		{name: "odd with separators", regNo: "REG-123-4-1", want: QueryA},
		{name: "odd leading zero", regNo: "X01", want: QueryA},
		{name: "even without query B", regNo: "REG12346", wantErr: errors.ErrUnsupportedParity},
		{name: "even with query B", regNo: "REG12346", evenQuery: queryB, want: queryB},
		{name: "zero is even", regNo: "00", wantErr: errors.ErrUnsupportedParity},
		{name: "single digit", regNo: "AB1", wantErr: errors.ErrInvalidRegistrationNumber},
		{name: "no digits", regNo: "REG", wantErr: errors.ErrInvalidRegistrationNumber},
		{name: "empty", regNo: "", wantErr: errors.ErrInvalidRegistrationNumber},
		{name: "non-ascii digits ignored", regNo: "٣٤5", wantErr: errors.ErrInvalidRegistrationNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveAnswerQuery(tt.regNo, tt.evenQuery)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveAnswerQuery_Deterministic(t *testing.T) {
	for _, regNo := range []string{"REG12347", "22BCE1001", "99"} {
		first, firstErr := DeriveAnswerQuery(regNo, "")
		for i := 0; i < 5; i++ {
			got, err := DeriveAnswerQuery(regNo, "")
			assert.Equal(t, first, got)
			assert.Equal(t, firstErr == nil, err == nil)
		}
	}
}

func TestDeriveAnswerQuery_UnsupportedParityCarriesDigits(t *testing.T) {
	_, err := DeriveAnswerQuery("REG12346", "")
	stdErr := errors.AsStandardError(err)
	require.NotNil(t, stdErr)
	assert.Equal(t, "46", stdErr.Metadata["lastTwoDigits"])
}

func TestQueryA_Verbatim(t *testing.T) {
	assert.Equal(t,
		"SELECT p.AMOUNT AS SALARY, CONCAT(e.FIRST_NAME, ' ', e.LAST_NAME) AS NAME, TIMESTAMPDIFF(YEAR, e.DOB, CURDATE()) AS AGE, d.DEPARTMENT_NAME FROM PAYMENTS p JOIN EMPLOYEE e ON p.EMP_ID = e.EMP_ID JOIN DEPARTMENT d ON e.DEPARTMENT = d.DEPARTMENT_ID WHERE DAY(p.PAYMENT_TIME) <> 1 ORDER BY p.AMOUNT DESC LIMIT 1;",
		QueryA)
}
