package recordrepo

// Repo stores the records of one collection keyed by a numeric id assigned on insert
type Repo[T any] interface {
	Insert(record T) (T, error)
	Get(id int64) (T, error)
	List(filter func(T) bool) ([]T, error)
	Replace(id int64, record T) (T, error)
	Delete(id int64) error
}
