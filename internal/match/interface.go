package match

// Store is the append-mostly collection of committed matches.
type Store interface {
	Append(rec *Record) (int64, error)
	Get(id int64) (*Record, error)
	List(filter Filter) (Page, error)
	All() ([]Record, error)
	UpdateField(id int64, field Field, value string) (*Record, error)
	Delete(id int64) error
}
