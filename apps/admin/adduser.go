package main

import (
	"fmt"
	"time"

	"github.com/escoladigital/secretaria/core"
	"github.com/escoladigital/secretaria/core/authz"
	"github.com/escoladigital/secretaria/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(name, cpf, email, cargo, pwd string) error {
	name = core.CleanString(name)
	cpf = core.CleanCPF(cpf)
	email = core.CleanString(email, true /* lower */)

	role := authz.Role(cargo)
	if !role.Valid() {
		return fmt.Errorf("unknown cargo %q", cargo)
	}

	usr, err := cli.usrRepo.GetUserByCPF(cpf)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		now := time.Now().UTC()
		usr = user.User{
			CPF:       cpf,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	usr.Name = name
	usr.Email = email
	usr.Role = role
	usr.IsActive = true
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if usr.ID == 0 {
		_, err = cli.usrRepo.CreateUser(usr)
	} else {
		usr.UpdatedAt = time.Now().UTC()
		isActive := true
		_, err = cli.usrRepo.UpdateUser(usr, &isActive)
	}
	return err
}
