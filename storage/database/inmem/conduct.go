package inmemdb

import (
	"sort"

	"github.com/escoladigital/secretaria/core/conduct"
)

type conductRepository struct {
	warnings    *table[conduct.Warning]
	suspensions *table[conduct.Suspension]
}

var _ conduct.Repository = (*conductRepository)(nil)

func NewConductRepository(db *DB) conduct.Repository {
	return &conductRepository{warnings: db.warnings, suspensions: db.suspensions}
}

func scopeAllowed(studentIDs []int) map[int]struct{} {
	if studentIDs == nil {
		return nil
	}
	allowed := make(map[int]struct{}, len(studentIDs))
	for _, id := range studentIDs {
		allowed[id] = struct{}{}
	}
	return allowed
}

func (repo *conductRepository) CreateWarning(w conduct.Warning) (conduct.Warning, error) {
	repo.warnings.mutex.Lock()
	defer repo.warnings.mutex.Unlock()

	repo.warnings.seq++
	w.ID = repo.warnings.seq
	repo.warnings.rows[w.ID] = &w
	return w, nil
}

func (repo *conductRepository) GetWarningByID(id int) (conduct.Warning, error) {
	repo.warnings.mutex.RLock()
	defer repo.warnings.mutex.RUnlock()

	if w, ok := repo.warnings.rows[id]; ok {
		return *w, nil
	}
	return conduct.Warning{}, conduct.ErrWarningNotFound
}

func (repo *conductRepository) FilterWarnings(filter conduct.QueryFilter) ([]conduct.Warning, error) {
	repo.warnings.mutex.RLock()
	defer repo.warnings.mutex.RUnlock()

	allowed := scopeAllowed(filter.StudentIDs)
	warnings := make([]conduct.Warning, 0)
	for _, w := range repo.warnings.all() {
		if filter.StudentID != 0 && w.StudentID != filter.StudentID {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[w.StudentID]; !ok {
				continue
			}
		}
		warnings = append(warnings, w)
	}
	sort.Slice(warnings, func(i, j int) bool { return warnings[i].ID < warnings[j].ID })
	return warnings, nil
}

func (repo *conductRepository) UpdateWarning(w conduct.Warning) (conduct.Warning, error) {
	repo.warnings.mutex.Lock()
	defer repo.warnings.mutex.Unlock()

	if _, ok := repo.warnings.rows[w.ID]; !ok {
		return conduct.Warning{}, conduct.ErrWarningNotFound
	}
	repo.warnings.rows[w.ID] = &w
	return w, nil
}

func (repo *conductRepository) DeleteWarningsByID(ids ...int) error {
	repo.warnings.mutex.Lock()
	defer repo.warnings.mutex.Unlock()
	for _, id := range ids {
		delete(repo.warnings.rows, id)
	}
	return nil
}

func (repo *conductRepository) CreateSuspension(s conduct.Suspension) (conduct.Suspension, error) {
	repo.suspensions.mutex.Lock()
	defer repo.suspensions.mutex.Unlock()

	repo.suspensions.seq++
	s.ID = repo.suspensions.seq
	repo.suspensions.rows[s.ID] = &s
	return s, nil
}

func (repo *conductRepository) GetSuspensionByID(id int) (conduct.Suspension, error) {
	repo.suspensions.mutex.RLock()
	defer repo.suspensions.mutex.RUnlock()

	if s, ok := repo.suspensions.rows[id]; ok {
		return *s, nil
	}
	return conduct.Suspension{}, conduct.ErrSuspensionNotFound
}

func (repo *conductRepository) FilterSuspensions(filter conduct.QueryFilter) ([]conduct.Suspension, error) {
	repo.suspensions.mutex.RLock()
	defer repo.suspensions.mutex.RUnlock()

	allowed := scopeAllowed(filter.StudentIDs)
	suspensions := make([]conduct.Suspension, 0)
	for _, s := range repo.suspensions.all() {
		if filter.StudentID != 0 && s.StudentID != filter.StudentID {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[s.StudentID]; !ok {
				continue
			}
		}
		suspensions = append(suspensions, s)
	}
	sort.Slice(suspensions, func(i, j int) bool { return suspensions[i].ID < suspensions[j].ID })
	return suspensions, nil
}

func (repo *conductRepository) UpdateSuspension(s conduct.Suspension) (conduct.Suspension, error) {
	repo.suspensions.mutex.Lock()
	defer repo.suspensions.mutex.Unlock()

	if _, ok := repo.suspensions.rows[s.ID]; !ok {
		return conduct.Suspension{}, conduct.ErrSuspensionNotFound
	}
	repo.suspensions.rows[s.ID] = &s
	return s, nil
}

func (repo *conductRepository) DeleteSuspensionsByID(ids ...int) error {
	repo.suspensions.mutex.Lock()
	defer repo.suspensions.mutex.Unlock()
	for _, id := range ids {
		delete(repo.suspensions.rows, id)
	}
	return nil
}
