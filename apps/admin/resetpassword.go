package main

import (
	"time"

	"github.com/escoladigital/secretaria/core"
)

func (cli *commandLine) resetPassword(cpf, pwd string) error {
	usr, err := cli.usrRepo.GetUserByCPF(core.CleanCPF(cpf))
	if err != nil {
		return err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	if _, err := cli.usrRepo.UpdateUser(usr, nil); err != nil {
		return err
	}
	return nil
}
