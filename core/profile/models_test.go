package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/findtutor/core"
)

func TestUpdateTeacherValidate(t *testing.T) {
	valid := func() UpdateTeacher {
		return UpdateTeacher{
			Subject:    "Mathematics",
			Experience: "5",
			HourlyRate: "2500",
			Location:   "Colombo",
		}
	}

	t.Run("plain numbers", func(t *testing.T) {
		data := valid()
		require.NoError(t, data.Validate())
		assert.Equal(t, 5, data.years)
		assert.Equal(t, 2500.0, data.rate)
	})

	t.Run("free-form input is coerced", func(t *testing.T) {
		data := valid()
		data.Experience = "5 years"
		data.HourlyRate = "LKR 2500.50 per hour"
		require.NoError(t, data.Validate())
		assert.Equal(t, 5, data.years)
		assert.Equal(t, 2500.50, data.rate)
	})

	t.Run("non-numeric input is rejected", func(t *testing.T) {
		data := valid()
		data.Experience = "lots"
		data.HourlyRate = "cheap"
		err := data.Validate()
		require.Error(t, err)

		vErr, ok := err.(*core.ValidationError)
		require.True(t, ok)
		flds := make([]string, 0, len(vErr.Fields))
		for _, f := range vErr.Fields {
			flds = append(flds, f.Field)
		}
		assert.ElementsMatch(t, []string{"years_experience", "hourly_rate"}, flds)
	})

	t.Run("required fields", func(t *testing.T) {
		data := UpdateTeacher{}
		assert.Error(t, data.Validate())
	})
}

func TestUpdateStudentValidate(t *testing.T) {
	data := UpdateStudent{EducationLevel: "  A/L  ", Location: " Kandy "}
	require.NoError(t, data.Validate())
	assert.Equal(t, "A/L", data.EducationLevel)
	assert.Equal(t, "Kandy", data.Location)

	assert.Error(t, (&UpdateStudent{}).Validate())
}
