package local

import (
	"fmt"
	"regexp"
)

// Имена хранилищ встроенной базы
const (
	StoreUsers           = "users"
	StoreDocuments       = "documents"
	StoreUniversity      = "university"
	StoreHigherEducation = "higher_education"
	StoreComplementary   = "complementary"
	StoreAddress         = "address"
	StoreBaccalaureat    = "baccalaureat"
	StorePersonalInfo    = "personal_info"
	StoreUniversityInfo  = "university_info"
)

var (
	storeNamePattern  = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	fieldNamePattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
	defaultPrimaryKey = "id"
)

// IndexDefinition описывает вторичный индекс по полю записи
type IndexDefinition struct {
	Name    string
	KeyPath string
	Unique  bool
}

// StoreDefinition описывает одно хранилище: первичный ключ и индексы
type StoreDefinition struct {
	Name          string
	PrimaryKey    string
	AutoIncrement bool
	Indexes       []IndexDefinition
}

// Index возвращает определение индекса по имени
func (d StoreDefinition) Index(name string) (IndexDefinition, bool) {
	for _, idx := range d.Indexes {
		if idx.Name == name {
			return idx, true
		}
	}
	return IndexDefinition{}, false
}

func (d StoreDefinition) validate() error {
	if !storeNamePattern.MatchString(d.Name) {
		return fmt.Errorf("invalid store name %q", d.Name)
	}
	if !fieldNamePattern.MatchString(d.PrimaryKey) {
		return fmt.Errorf("store %s: invalid primary key %q", d.Name, d.PrimaryKey)
	}
	seen := make(map[string]struct{}, len(d.Indexes))
	for _, idx := range d.Indexes {
		if !fieldNamePattern.MatchString(idx.Name) || !fieldNamePattern.MatchString(idx.KeyPath) {
			return fmt.Errorf("store %s: invalid index %q on %q", d.Name, idx.Name, idx.KeyPath)
		}
		if _, dup := seen[idx.Name]; dup {
			return fmt.Errorf("store %s: duplicate index %q", d.Name, idx.Name)
		}
		seen[idx.Name] = struct{}{}
	}
	return nil
}

// Schema - реестр хранилищ. Единственный источник правды о форме базы.
type Schema struct {
	stores []StoreDefinition
	byName map[string]int
}

// NewSchema проверяет определения и собирает реестр
func NewSchema(defs ...StoreDefinition) (*Schema, error) {
	s := &Schema{
		stores: make([]StoreDefinition, 0, len(defs)),
		byName: make(map[string]int, len(defs)),
	}
	for _, def := range defs {
		if def.PrimaryKey == "" {
			def.PrimaryKey = defaultPrimaryKey
		}
		if err := def.validate(); err != nil {
			return nil, err
		}
		if _, dup := s.byName[def.Name]; dup {
			return nil, fmt.Errorf("duplicate store %q", def.Name)
		}
		s.byName[def.Name] = len(s.stores)
		s.stores = append(s.stores, def)
	}
	return s, nil
}

// Stores возвращает копию определений в порядке объявления
func (s *Schema) Stores() []StoreDefinition {
	out := make([]StoreDefinition, len(s.stores))
	copy(out, s.stores)
	return out
}

// Names возвращает имена хранилищ в порядке объявления
func (s *Schema) Names() []string {
	out := make([]string, 0, len(s.stores))
	for _, def := range s.stores {
		out = append(out, def.Name)
	}
	return out
}

// Store ищет определение по имени
func (s *Schema) Store(name string) (StoreDefinition, bool) {
	i, ok := s.byName[name]
	if !ok {
		return StoreDefinition{}, false
	}
	return s.stores[i], true
}

func studentStore(name string, extra ...IndexDefinition) StoreDefinition {
	return StoreDefinition{
		Name:          name,
		PrimaryKey:    defaultPrimaryKey,
		AutoIncrement: true,
		Indexes:       append([]IndexDefinition{{Name: "studentId", KeyPath: "studentId"}}, extra...),
	}
}

// DefaultSchema - актуальная схема базы приложения
func DefaultSchema() *Schema {
	s, err := NewSchema(
		StoreDefinition{
			Name:          StoreUsers,
			AutoIncrement: true,
			Indexes:       []IndexDefinition{{Name: "email", KeyPath: "email", Unique: true}},
		},
		studentStore(StoreDocuments, IndexDefinition{Name: "type", KeyPath: "type"}),
		studentStore(StoreUniversity, IndexDefinition{Name: "academicYear", KeyPath: "academicYear"}),
		studentStore(StoreHigherEducation, IndexDefinition{Name: "level", KeyPath: "level"}),
		studentStore(StoreComplementary, IndexDefinition{Name: "studentStatus", KeyPath: "studentStatus"}),
		studentStore(StoreAddress, IndexDefinition{Name: "email", KeyPath: "email1"}),
		studentStore(StoreBaccalaureat, IndexDefinition{Name: "year", KeyPath: "year"}),
		StoreDefinition{
			Name:          StorePersonalInfo,
			AutoIncrement: true,
			Indexes: []IndexDefinition{
				{Name: "cne", KeyPath: "cne", Unique: true},
				{Name: "cin", KeyPath: "cin", Unique: true},
			},
		},
		studentStore(StoreUniversityInfo),
	)
	if err != nil {
		panic(err)
	}
	return s
}
