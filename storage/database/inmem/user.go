package inmemdb

import (
	"sort"
	"strings"

	"github.com/escoladigital/secretaria/core/user"
)

type userRepository struct {
	users  *table[user.User]
	tokens *table[user.PasswordResetToken]
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{users: db.users, tokens: db.resetTokens}
}

func (repo *userRepository) CheckUniqueness(cpf, email string, excludedUsers ...user.User) error {
	repo.users.mutex.RLock()
	defer repo.users.mutex.RUnlock()

	exclLen := len(excludedUsers)
	if exclLen > 1 {
		sort.Slice(excludedUsers, func(i, j int) bool { return excludedUsers[i].ID < excludedUsers[j].ID })
	}

	for _, usr := range repo.users.all() {
		if usr.CPF == cpf && !isExcluded(usr, excludedUsers, exclLen) {
			return user.ErrCPFExists
		}
		if usr.Email == email && !isExcluded(usr, excludedUsers, exclLen) {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	repo.users.mutex.Lock()
	defer repo.users.mutex.Unlock()

	repo.users.seq++
	usr.ID = repo.users.seq
	repo.users.rows[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) GetUserByID(id int) (user.User, error) {
	repo.users.mutex.RLock()
	defer repo.users.mutex.RUnlock()

	if usr, ok := repo.users.rows[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByCPF(cpf string) (user.User, error) {
	repo.users.mutex.RLock()
	defer repo.users.mutex.RUnlock()

	for _, usr := range repo.users.all() {
		if usr.CPF == cpf {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	repo.users.mutex.RLock()
	defer repo.users.mutex.RUnlock()

	for _, usr := range repo.users.all() {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) FilterUsers(filter user.QueryFilter) ([]user.User, error) {
	repo.users.mutex.RLock()
	defer repo.users.mutex.RUnlock()

	users := make([]user.User, 0)
	for _, usr := range repo.users.all() {
		if filter.Role != "" && usr.Role != filter.Role {
			continue
		}
		if filter.IsActive != nil && usr.IsActive != *filter.IsActive {
			continue
		}
		if filter.Search != "" && !matchesSearch(filter.Search, usr.Name, usr.CPF, usr.Email) {
			continue
		}
		users = append(users, usr)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	repo.users.mutex.Lock()
	defer repo.users.mutex.Unlock()

	// only save set fields
	origUsr, ok := repo.users.rows[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	if usr.Role != "" {
		origUsr.Role = usr.Role
	}
	if usr.PasswordHash != nil {
		origUsr.PasswordHash = usr.PasswordHash
	}
	if isActive != nil {
		origUsr.IsActive = *isActive
	}
	if usr.Name != "" {
		origUsr.Name = usr.Name
	}
	if usr.CPF != "" {
		origUsr.CPF = usr.CPF
	}
	if usr.Email != "" {
		origUsr.Email = usr.Email
	}
	if !usr.LastLogin.IsZero() {
		origUsr.LastLogin = usr.LastLogin
	}
	origUsr.UpdatedAt = usr.UpdatedAt

	repo.users.rows[usr.ID] = origUsr
	return *origUsr, nil
}

func (repo *userRepository) DeleteUsersByID(ids ...int) error {
	repo.users.mutex.Lock()
	defer repo.users.mutex.Unlock()
	for _, id := range ids {
		delete(repo.users.rows, id)
	}
	return nil
}

func (repo *userRepository) CreatePasswordResetToken(tok user.PasswordResetToken) (user.PasswordResetToken, error) {
	repo.tokens.mutex.Lock()
	defer repo.tokens.mutex.Unlock()

	repo.tokens.seq++
	repo.tokens.rows[repo.tokens.seq] = &tok
	return tok, nil
}

func (repo *userRepository) GetPasswordResetToken(token string) (user.PasswordResetToken, error) {
	repo.tokens.mutex.RLock()
	defer repo.tokens.mutex.RUnlock()

	for _, tok := range repo.tokens.all() {
		if tok.Token == token {
			return tok, nil
		}
	}
	return user.PasswordResetToken{}, user.ErrNotFound
}

func (repo *userRepository) DeletePasswordResetTokens(userID int) error {
	repo.tokens.mutex.Lock()
	defer repo.tokens.mutex.Unlock()

	for id, tok := range repo.tokens.rows {
		if tok.UserID == userID {
			delete(repo.tokens.rows, id)
		}
	}
	return nil
}

func isExcluded(usr user.User, excludedUsers []user.User, n int) bool {
	if n <= 0 {
		return false
	}
	idx := sort.Search(n, func(i int) bool { return excludedUsers[i].ID >= usr.ID })
	return idx < n && excludedUsers[idx].ID == usr.ID
}

func matchesSearch(search string, fields ...string) bool {
	search = strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}
