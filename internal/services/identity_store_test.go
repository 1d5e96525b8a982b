package services_test

import (
	"context"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/accounts-api/internal/domain/entities"
	"github.com/rafabene/accounts-api/internal/domain/errors"
	"github.com/rafabene/accounts-api/internal/services"
)

var _ = Describe("IdentityStore", func() {
	var (
		f   *fixture
		ctx context.Context
	)

	BeforeEach(func() {
		f = newFixture()
		ctx = context.Background()
	})

	create := func(username string, email *string) *entities.User {
		user, err := f.store.Create(ctx, services.CreateUserParams{
			Username: username,
			Password: "secret123",
			Email:    email,
		})
		Expect(err).NotTo(HaveOccurred())
		return user
	}

	Describe("Create", func() {
		It("armazena apenas o hash da senha", func() {
			user := create("alice", ptr("alice@example.com"))

			Expect(user.ID).NotTo(BeEmpty())
			Expect(user.Role).To(Equal(entities.RoleUser))
			Expect(user.PasswordHash).NotTo(Equal("secret123"))
			Expect(f.hasher.Verify("secret123", user.PasswordHash)).To(BeTrue())
			Expect(f.hasher.Verify("other", user.PasswordHash)).To(BeFalse())
		})

		It("normaliza o email", func() {
			user := create("alice", ptr("  Alice@Example.COM "))
			Expect(*user.Email).To(Equal("alice@example.com"))
		})

		It("retorna conflito de username para registro ativo", func() {
			create("alice", nil)

			_, err := f.store.Create(ctx, services.CreateUserParams{Username: "alice", Password: "x"})

			var conflict *errors.ConflictError
			Expect(err).To(BeAssignableToTypeOf(conflict))
			Expect(err).To(MatchError(errors.ErrUsernameAlreadyExists))
		})

		It("retorna conflito de email para registro ativo", func() {
			create("alice", ptr("a@example.com"))

			_, err := f.store.Create(ctx, services.CreateUserParams{Username: "bob", Password: "x", Email: ptr("A@example.com")})

			Expect(err).To(MatchError(errors.ErrEmailAlreadyExists))
		})

		It("recusa papel fora da enumeração", func() {
			_, err := f.store.Create(ctx, services.CreateUserParams{Username: "alice", Password: "x", Role: "root"})
			Expect(errors.IsValidation(err)).To(BeTrue())
		})

		It("permite exatamente um entre cadastros concorrentes com o mesmo username", func() {
			const attempts = 5
			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				successes int
				conflicts int
			)

			for i := 0; i < attempts; i++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := f.store.Create(ctx, services.CreateUserParams{Username: "racer", Password: "secret123"})
					mu.Lock()
					defer mu.Unlock()
					if err == nil {
						successes++
					} else if errors.IsConflict(err) {
						conflicts++
					}
				}()
			}
			wg.Wait()

			Expect(successes).To(Equal(1))
			Expect(conflicts).To(Equal(attempts - 1))
		})
	})

	Describe("SoftDelete", func() {
		It("retorna sucesso e depois NotFound", func() {
			user := create("alice", nil)

			Expect(f.store.SoftDelete(ctx, user.ID)).To(Succeed())
			Expect(f.store.SoftDelete(ctx, user.ID)).To(MatchError(errors.ErrUserNotFound))

			_, err := f.store.FindByID(ctx, user.ID)
			Expect(err).To(MatchError(errors.ErrUserNotFound))
		})

		It("libera o username para um novo cadastro", func() {
			user := create("alice", nil)
			Expect(f.store.SoftDelete(ctx, user.ID)).To(Succeed())

			again := create("alice", nil)
			Expect(again.ID).NotTo(Equal(user.ID))
		})
	})

	Describe("Update", func() {
		It("atualiza o email sem alterar o hash", func() {
			user := create("alice", nil)

			_, err := f.store.Update(ctx, user.ID, services.UserPatch{
				Email: services.OptionalString{Set: true, Value: ptr("x@example.com")},
			})
			Expect(err).NotTo(HaveOccurred())

			found, err := f.store.FindByID(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(*found.Email).To(Equal("x@example.com"))
			Expect(found.PasswordHash).To(Equal(user.PasswordHash))
		})

		It("recalcula o hash quando a senha é informada", func() {
			user := create("alice", nil)

			updated, err := f.store.Update(ctx, user.ID, services.UserPatch{Password: ptr("newsecret")})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.PasswordHash).NotTo(Equal(user.PasswordHash))
			Expect(f.hasher.Verify("newsecret", updated.PasswordHash)).To(BeTrue())
		})

		It("limpa campos opcionais com valor nulo", func() {
			user := create("alice", ptr("a@example.com"))

			updated, err := f.store.Update(ctx, user.ID, services.UserPatch{
				Email: services.OptionalString{Set: true},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Email).To(BeNil())
		})

		It("recusa username de outro registro ativo", func() {
			create("alice", nil)
			bob := create("bob", nil)

			_, err := f.store.Update(ctx, bob.ID, services.UserPatch{Username: ptr("alice")})
			Expect(err).To(MatchError(errors.ErrUsernameAlreadyExists))
		})

		It("aceita o próprio username e email", func() {
			alice := create("alice", ptr("a@example.com"))

			_, err := f.store.Update(ctx, alice.ID, services.UserPatch{
				Username: ptr("alice"),
				Email:    services.OptionalString{Set: true, Value: ptr("a@example.com")},
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("retorna NotFound para id desconhecido ou removido", func() {
			user := create("alice", nil)
			Expect(f.store.SoftDelete(ctx, user.ID)).To(Succeed())

			_, err := f.store.Update(ctx, user.ID, services.UserPatch{FullName: services.OptionalString{Set: true, Value: ptr("A")}})
			Expect(err).To(MatchError(errors.ErrUserNotFound))
		})

		It("valida o papel antes de persistir", func() {
			user := create("alice", nil)
			role := entities.Role("root")

			_, err := f.store.Update(ctx, user.ID, services.UserPatch{Role: &role})
			Expect(errors.IsValidation(err)).To(BeTrue())
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			for _, name := range []string{"a1", "a2", "a3"} {
				create(name, nil)
			}
		})

		It("pagina registros ativos e retorna o total", func() {
			users, total, err := f.store.List(ctx, 1, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(3)))
			Expect(users).To(HaveLen(2))
		})

		It("recusa página ou tamanho não positivos", func() {
			_, _, err := f.store.List(ctx, 0, 10)
			Expect(errors.IsValidation(err)).To(BeTrue())

			_, _, err = f.store.List(ctx, 1, -1)
			Expect(errors.IsValidation(err)).To(BeTrue())
		})

		It("limita o tamanho da página", func() {
			users, _, err := f.store.List(ctx, 1, 1000)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(3))
		})
	})
})
