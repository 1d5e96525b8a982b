package services_test

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/rafabene/accounts-api/internal/domain/entities"
	"github.com/rafabene/accounts-api/internal/domain/errors"
	"github.com/rafabene/accounts-api/internal/mocks"
	"github.com/rafabene/accounts-api/internal/services"
)

var _ = Describe("IdentityService", func() {
	var (
		f   *fixture
		ctx context.Context
	)

	BeforeEach(func() {
		f = newFixture()
		ctx = context.Background()
	})

	register := func(svc *services.IdentityService, username string) *entities.User {
		result, err := svc.Register(ctx, services.RegisterInput{
			Username: username,
			Password: "secret123",
			Email:    ptr(username + "@example.com"),
		})
		Expect(err).NotTo(HaveOccurred())
		return result.User
	}

	Describe("Register", func() {
		It("v2 emite token com o TTL configurado", func() {
			svc := f.service(services.V2Policy(0))

			result, err := svc.Register(ctx, services.RegisterInput{
				Username: "alice",
				Password: "secret123",
				Email:    ptr("alice@example.com"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Token).NotTo(BeNil())
			Expect(result.Token.ExpiresAt).To(Equal(fixedNow.Add(time.Hour)))

			principal, err := f.tokens.Verify(result.Token.Value)
			Expect(err).NotTo(HaveOccurred())
			Expect(principal.UserID).To(Equal(result.User.ID))
			Expect(principal.Role).To(Equal(entities.RoleUser))
		})

		It("v2 aplica validação estrita", func() {
			svc := f.service(services.V2Policy(0))

			_, err := svc.Register(ctx, services.RegisterInput{Username: "al", Password: "123", Email: ptr("not-an-email")})

			var verr *errors.ValidationError
			Expect(stderrors.As(err, &verr)).To(BeTrue())
			fields := map[string]bool{}
			for _, v := range verr.Violations {
				fields[v.Field] = true
			}
			Expect(fields).To(HaveKey("username"))
			Expect(fields).To(HaveKey("password"))
			Expect(fields).To(HaveKey("email"))
		})

		It("v2 ignora o papel informado no cadastro", func() {
			svc := f.service(services.V2Policy(0))

			result, err := svc.Register(ctx, services.RegisterInput{
				Username: "alice", Password: "secret123", Email: ptr("a@example.com"), Role: ptr("admin"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.User.Role).To(Equal(entities.RoleUser))
		})

		It("v1 exige apenas presença e não emite token", func() {
			svc := f.service(services.V1Policy(0))

			result, err := svc.Register(ctx, services.RegisterInput{Username: "al", Password: "1", Email: ptr("not-an-email")})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Token).To(BeNil())

			_, err = svc.Register(ctx, services.RegisterInput{Username: "", Password: "1"})
			Expect(errors.IsValidation(err)).To(BeTrue())
		})

		It("legacy aceita papel válido e recusa papel desconhecido", func() {
			svc := f.service(services.LegacyPolicy(time.Hour))

			result, err := svc.Register(ctx, services.RegisterInput{Username: "boss", Password: "pw", Role: ptr("admin")})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.User.Role).To(Equal(entities.RoleAdmin))

			_, err = svc.Register(ctx, services.RegisterInput{Username: "x", Password: "pw", Role: ptr("root")})
			Expect(errors.IsValidation(err)).To(BeTrue())
		})

		It("retorna conflito para username já cadastrado", func() {
			svc := f.service(services.V1Policy(0))
			register(svc, "alice")

			_, err := svc.Register(ctx, services.RegisterInput{Username: "alice", Password: "pw"})
			Expect(errors.IsConflict(err)).To(BeTrue())
		})
	})

	Describe("Login", func() {
		It("emite token com TTL de 8h na v1", func() {
			svc := f.service(services.V1Policy(0))
			user := register(svc, "alice")

			result, err := svc.Login(ctx, services.LoginInput{Username: "alice", Password: "secret123"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.User.ID).To(Equal(user.ID))
			Expect(result.Token.ExpiresAt).To(Equal(fixedNow.Add(8 * time.Hour)))
		})

		It("retorna o mesmo erro para senha errada e usuário inexistente", func() {
			svc := f.service(services.V2Policy(0))
			register(svc, "alice")

			_, err := svc.Login(ctx, services.LoginInput{Username: "alice", Password: "wrong"})
			Expect(err).To(MatchError(errors.ErrInvalidCredentials))

			_, err = svc.Login(ctx, services.LoginInput{Username: "nobody", Password: "secret123"})
			Expect(err).To(MatchError(errors.ErrInvalidCredentials))
		})

		It("verifica um hash também quando o username não existe", func() {
			hasher := &countingHasher{PasswordHasher: f.hasher}
			svc := services.NewIdentityService(services.V2Policy(0), f.store, hasher, f.tokens, nil, f.logger)

			_, err := svc.Login(ctx, services.LoginInput{Username: "nobody", Password: "secret123"})
			Expect(err).To(MatchError(errors.ErrInvalidCredentials))
			Expect(hasher.verified).To(HaveLen(1))
			Expect(hasher.verified[0]).To(HavePrefix("$2a$"))

			_, err = svc.Login(ctx, services.LoginInput{Username: "ghost", Password: "secret123"})
			Expect(err).To(MatchError(errors.ErrInvalidCredentials))
			Expect(hasher.verified).To(HaveLen(2))
			Expect(hasher.verified[1]).To(Equal(hasher.verified[0]))
		})

		It("não autentica usuário removido", func() {
			svc := f.service(services.LegacyPolicy(time.Hour))
			user := register(svc, "alice")
			Expect(svc.DeleteUser(ctx, nil, user.ID)).To(Succeed())

			_, err := svc.Login(ctx, services.LoginInput{Username: "alice", Password: "secret123"})
			Expect(err).To(MatchError(errors.ErrInvalidCredentials))
		})

		It("exige username e senha", func() {
			svc := f.service(services.V2Policy(0))
			_, err := svc.Login(ctx, services.LoginInput{Username: "alice"})
			Expect(errors.IsValidation(err)).To(BeTrue())
		})
	})

	Describe("UpdateUser", func() {
		It("v1 aplica apenas email e fullname", func() {
			svc := f.service(services.V1Policy(0))
			user := register(svc, "alice")

			updated, err := svc.UpdateUser(ctx, nil, user.ID, services.UpdateUserInput{
				Username: ptr("mallory"),
				Role:     ptr("admin"),
				FullName: services.OptionalString{Set: true, Value: ptr("Alice A.")},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Username).To(Equal("alice"))
			Expect(updated.Role).To(Equal(entities.RoleUser))
			Expect(*updated.FullName).To(Equal("Alice A."))
		})

		It("v2 exige principal", func() {
			svc := f.service(services.V2Policy(0))
			user := register(svc, "alice")

			_, err := svc.UpdateUser(ctx, nil, user.ID, services.UpdateUserInput{
				FullName: services.OptionalString{Set: true, Value: ptr("A")},
			})
			Expect(err).To(MatchError(errors.ErrUnauthorized))
		})

		It("v2 só permite mudança de papel com users.roles.write", func() {
			svc := f.service(services.V2Policy(0))
			user := register(svc, "alice")

			self := &entities.Principal{UserID: user.ID, Role: entities.RoleUser}
			_, err := svc.UpdateUser(ctx, self, user.ID, services.UpdateUserInput{Role: ptr("admin")})
			Expect(err).To(MatchError(errors.ErrForbidden))

			admin := &entities.Principal{UserID: uuid.NewString(), Role: entities.RoleAdmin}
			updated, err := svc.UpdateUser(ctx, admin, user.ID, services.UpdateUserInput{Role: ptr("staff")})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Role).To(Equal(entities.RoleStaff))
		})

		It("v2 impede que um usuário comum altere outro", func() {
			svc := f.service(services.V2Policy(0))
			alice := register(svc, "alice")
			bob := register(svc, "bob")

			actor := &entities.Principal{UserID: bob.ID, Role: entities.RoleUser}
			_, err := svc.UpdateUser(ctx, actor, alice.ID, services.UpdateUserInput{
				FullName: services.OptionalString{Set: true, Value: ptr("hacked")},
			})
			Expect(err).To(MatchError(errors.ErrForbidden))
		})

		It("v2 valida o formato do email", func() {
			svc := f.service(services.V2Policy(0))
			user := register(svc, "alice")
			self := &entities.Principal{UserID: user.ID, Role: entities.RoleUser}

			_, err := svc.UpdateUser(ctx, self, user.ID, services.UpdateUserInput{
				Email: services.OptionalString{Set: true, Value: ptr("bad")},
			})
			Expect(errors.IsValidation(err)).To(BeTrue())
		})

		It("v2 recusa remover o email obrigatório", func() {
			svc := f.service(services.V2Policy(0))
			user := register(svc, "alice")
			self := &entities.Principal{UserID: user.ID, Role: entities.RoleUser}

			_, err := svc.UpdateUser(ctx, self, user.ID, services.UpdateUserInput{
				Email: services.OptionalString{Set: true},
			})
			Expect(errors.IsValidation(err)).To(BeTrue())

			found, err := svc.GetUser(ctx, self, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Email).NotTo(BeNil())
			Expect(*found.Email).To(Equal("alice@example.com"))
		})

		It("v1 aceita email nulo", func() {
			svc := f.service(services.V1Policy(0))
			user := register(svc, "alice")

			updated, err := svc.UpdateUser(ctx, nil, user.ID, services.UpdateUserInput{
				Email: services.OptionalString{Set: true},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Email).To(BeNil())
		})

		It("legacy troca a senha e mantém login funcionando", func() {
			svc := f.service(services.LegacyPolicy(time.Hour))
			user := register(svc, "alice")

			_, err := svc.UpdateUser(ctx, nil, user.ID, services.UpdateUserInput{Password: ptr("changed")})
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Login(ctx, services.LoginInput{Username: "alice", Password: "changed"})
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("ResetPassword", func() {
		var (
			svc   *services.IdentityService
			alice *entities.User
			bob   *entities.User
		)

		BeforeEach(func() {
			svc = f.service(services.LegacyPolicy(time.Hour))
			alice = register(svc, "alice")
			bob = register(svc, "bob")
		})

		It("exige principal", func() {
			err := svc.ResetPassword(ctx, nil, services.ResetPasswordInput{Username: "alice", NewPassword: "n"})
			Expect(err).To(MatchError(errors.ErrUnauthorized))
		})

		It("permite ao próprio usuário", func() {
			self := &entities.Principal{UserID: alice.ID, Role: entities.RoleUser}
			Expect(svc.ResetPassword(ctx, self, services.ResetPasswordInput{Username: "alice", NewPassword: "newpass"})).To(Succeed())

			_, err := svc.Login(ctx, services.LoginInput{Username: "alice", Password: "newpass"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("recusa outro usuário sem users.password.reset", func() {
			other := &entities.Principal{UserID: bob.ID, Role: entities.RoleStaff}
			err := svc.ResetPassword(ctx, other, services.ResetPasswordInput{Username: "alice", NewPassword: "n"})
			Expect(err).To(MatchError(errors.ErrForbidden))
		})

		It("permite admin", func() {
			admin := &entities.Principal{UserID: bob.ID, Role: entities.RoleAdmin}
			Expect(svc.ResetPassword(ctx, admin, services.ResetPasswordInput{Username: "alice", NewPassword: "n"})).To(Succeed())
		})

		It("retorna NotFound para username desconhecido", func() {
			admin := &entities.Principal{UserID: bob.ID, Role: entities.RoleAdmin}
			err := svc.ResetPassword(ctx, admin, services.ResetPasswordInput{Username: "ghost", NewPassword: "n"})
			Expect(err).To(MatchError(errors.ErrUserNotFound))
		})
	})

	Describe("GetUser, DeleteUser e ListUsers", func() {
		It("recusa id fora do formato", func() {
			svc := f.service(services.LegacyPolicy(time.Hour))

			_, err := svc.GetUser(ctx, nil, "123")
			Expect(errors.IsValidation(err)).To(BeTrue())
			Expect(svc.DeleteUser(ctx, nil, "abc")).To(Satisfy(errors.IsValidation))
		})

		It("v2 exige principal para leitura", func() {
			svc := f.service(services.V2Policy(0))
			user := register(svc, "alice")

			_, err := svc.GetUser(ctx, nil, user.ID)
			Expect(err).To(MatchError(errors.ErrUnauthorized))

			found, err := svc.GetUser(ctx, &entities.Principal{UserID: user.ID, Role: entities.RoleUser}, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal(user.ID))
		})

		It("lista com página e limite limitados", func() {
			svc := f.service(services.LegacyPolicy(time.Hour))
			register(svc, "alice")
			register(svc, "bob")

			page, err := svc.ListUsers(ctx, nil, services.ListUsersInput{Page: 1, Limit: 500})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Total).To(Equal(int64(2)))
			Expect(page.Users).To(HaveLen(2))
			Expect(page.Limit).To(Equal(100))

			_, err = svc.ListUsers(ctx, nil, services.ListUsersInput{Page: 0, Limit: 10})
			Expect(errors.IsValidation(err)).To(BeTrue())
		})
	})

	Describe("com repositório simulado", func() {
		var (
			ctrl *gomock.Controller
			repo *mocks.MockUserRepository
			uow  *mocks.MockUnitOfWork
			svc  *services.IdentityService
		)

		BeforeEach(func() {
			ctrl = gomock.NewController(GinkgoT())
			repo = mocks.NewMockUserRepository(ctrl)
			uow = mocks.NewMockUnitOfWork(ctrl)
			store := services.NewIdentityStore(repo, uow, f.hasher, f.logger)
			svc = services.NewIdentityService(services.V2Policy(0), store, f.hasher, f.tokens, nil, f.logger)
		})

		It("valida antes de qualquer acesso ao store", func() {
			// nenhuma chamada esperada: qualquer acesso ao repositório falha o teste
			_, err := svc.Register(ctx, services.RegisterInput{
				Username: "alice", Password: "secret123", Email: ptr("not-an-email"),
			})
			Expect(errors.IsValidation(err)).To(BeTrue())

			_, err = svc.GetUser(ctx, &entities.Principal{UserID: uuid.NewString(), Role: entities.RoleAdmin}, "not-a-uuid")
			Expect(errors.IsValidation(err)).To(BeTrue())
		})

		It("propaga falhas do store sem convertê-las", func() {
			boom := stderrors.New("connection refused")
			id := uuid.NewString()
			repo.EXPECT().FindByID(gomock.Any(), id).Return(nil, boom)

			_, err := svc.GetUser(ctx, &entities.Principal{UserID: id, Role: entities.RoleUser}, id)
			Expect(err).To(MatchError(boom))
		})

		It("usa a transação para a verificação consultiva e o insert", func() {
			uow.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).
				DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
					return fn(ctx)
				})
			gomock.InOrder(
				repo.EXPECT().FindByUsername(gomock.Any(), "alice").Return(nil, nil),
				repo.EXPECT().FindByEmail(gomock.Any(), "alice@example.com").Return(nil, nil),
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u *entities.User) error {
						u.ID = uuid.NewString()
						return nil
					}),
			)

			_, err := svc.Register(ctx, services.RegisterInput{
				Username: "alice", Password: "secret123", Email: ptr("alice@example.com"),
			})
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
