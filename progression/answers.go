package progression

import (
	"gorm.io/datatypes"

	"lms/models/course"
)

func datatypesAnswers(a course.Answers) datatypes.JSONType[course.Answers] {
	cp := make(course.Answers, len(a))
	for k, v := range a {
		cp[k] = v
	}
	return datatypes.NewJSONType(cp)
}
