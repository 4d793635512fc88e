package profile

// Уровни высшего образования
const (
	LevelBac2 = "bac+2"
	LevelBac3 = "bac+3"
	LevelBac5 = "bac+5"
)

// Типы адресов
const (
	AddressStudent = "student"
	AddressParent  = "parent"
)

// Статусы студента
const (
	StatusEnrolled = "inscrit"
	StatusAlumni   = "ancien étudiant"
)

// HighPerformerGrade - минимальная оценка бакалавриата для отличников
const HighPerformerGrade = 16

// User - учетная запись на устройстве
type User struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// PersonalInfo - корень агрегата, остальные записи ссылаются на него через studentId
type PersonalInfo struct {
	ID            string `json:"id,omitempty"`
	CNE           string `json:"cne,omitempty"`
	CIN           string `json:"cin,omitempty"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	FirstNameAr   string `json:"firstNameAr,omitempty"`
	LastNameAr    string `json:"lastNameAr,omitempty"`
	BirthDate     string `json:"birthDate,omitempty"`
	BirthPlace    string `json:"birthPlace,omitempty"`
	BirthPlaceAr  string `json:"birthPlaceAr,omitempty"`
	BirthProvince string `json:"birthProvince,omitempty"`
	BirthCountry  string `json:"birthCountry,omitempty"`
	Gender        string `json:"gender,omitempty"`
	Nationality   string `json:"nationality,omitempty"`
	CivilStatus   string `json:"civilStatus,omitempty"`
	Handicap      bool   `json:"handicap"`
	HandicapType  string `json:"handicapType,omitempty"`
	HandicapCause string `json:"handicapCause,omitempty"`
}

type UniversityInfo struct {
	ID           string `json:"id,omitempty"`
	StudentID    string `json:"studentId"`
	AcademicYear string `json:"academicYear"`
	Filiere      string `json:"filiere,omitempty"`
}

type AddressInfo struct {
	ID           string `json:"id,omitempty"`
	StudentID    string `json:"studentId"`
	Type         string `json:"type"`
	Address      string `json:"address,omitempty"`
	AddressAr    string `json:"addressAr,omitempty"`
	PostalCode   string `json:"postalCode,omitempty"`
	Commune      string `json:"commune,omitempty"`
	Province     string `json:"province,omitempty"`
	Country      string `json:"country,omitempty"`
	Housing      string `json:"housing,omitempty"`
	Email1       string `json:"email1,omitempty"`
	Email2       string `json:"email2,omitempty"`
	Phone        string `json:"phone,omitempty"`
	ParentStatus string `json:"parentStatus,omitempty"`
}

type BaccalaureatInfo struct {
	ID          string  `json:"id,omitempty"`
	StudentID   string  `json:"studentId"`
	Year        string  `json:"year"`
	Grade       float64 `json:"grade"`
	BacType     string  `json:"bacType,omitempty"`
	Institution string  `json:"institution,omitempty"`
	Serie       string  `json:"serie,omitempty"`
	Mention     string  `json:"mention,omitempty"`
	Academy     string  `json:"academy,omitempty"`
	Province    string  `json:"province,omitempty"`
	Country     string  `json:"country,omitempty"`
}

// SemesterGrades - оценки S1..S10, заполняются не все
type SemesterGrades struct {
	S1  *float64 `json:"s1,omitempty"`
	S2  *float64 `json:"s2,omitempty"`
	S3  *float64 `json:"s3,omitempty"`
	S4  *float64 `json:"s4,omitempty"`
	S5  *float64 `json:"s5,omitempty"`
	S6  *float64 `json:"s6,omitempty"`
	S7  *float64 `json:"s7,omitempty"`
	S8  *float64 `json:"s8,omitempty"`
	S9  *float64 `json:"s9,omitempty"`
	S10 *float64 `json:"s10,omitempty"`
}

type HigherEducationInfo struct {
	ID           string          `json:"id,omitempty"`
	StudentID    string          `json:"studentId"`
	Level        string          `json:"level"`
	Year         string          `json:"year,omitempty"`
	Grades       *SemesterGrades `json:"grades,omitempty"`
	DiplomaGrade *float64        `json:"diplomaGrade,omitempty"`
	Mention      string          `json:"mention,omitempty"`
	Filiere      string          `json:"filiere,omitempty"`
	DiplomaType  string          `json:"diplomaType,omitempty"`
	Institution  string          `json:"institution,omitempty"`
	Province     string          `json:"province,omitempty"`
	Country      string          `json:"country,omitempty"`
}

type ComplementaryInfo struct {
	ID              string `json:"id,omitempty"`
	StudentID       string `json:"studentId"`
	HigherEduDate   string `json:"higherEduDate,omitempty"`
	UniversityDate  string `json:"universityDate,omitempty"`
	InstitutionDate string `json:"institutionDate"`
	StudentStatus   string `json:"studentStatus"`
	Profession      string `json:"profession,omitempty"`
	Employer        string `json:"employer,omitempty"`
}

// DocumentInfo - файл студента. Содержимое хранится строкой (base64), без бинарной кодировки.
type DocumentInfo struct {
	ID          string `json:"id,omitempty"`
	StudentID   string `json:"studentId"`
	Type        string `json:"type"`
	FileName    string `json:"fileName"`
	FileSize    int64  `json:"fileSize"`
	FileType    string `json:"fileType"`
	FileContent string `json:"fileContent,omitempty"`
}
