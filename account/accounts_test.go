package account_test

import (
	"context"
	"time"

	"recruitbase/account"
	"recruitbase/authority"
	"recruitbase/bizerror"
	"recruitbase/persistence"
	"recruitbase/testinfra"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("userManage", func() {
	var (
		testDatabase *testinfra.TestDatabase
	)
	BeforeEach(func() {
		testDatabase = testinfra.StartMysqlTestDatabase("recruitbase")
		persistence.ActiveDataSourceManager = testDatabase.DS
		db := testDatabase.DS.GormDB(context.Background())
		Expect(db.AutoMigrate(&account.User{}, &account.UserRoleAssignment{}).Error).To(BeNil())
	})
	AfterEach(func() {
		testinfra.StopMysqlTestDatabase(testDatabase)
	})

	Describe("CreateUser", func() {
		It("should be blocked when caller lacks permission", func() {
			sec := testinfra.BuildSession(1, "viewer", authority.RoleViewer)
			u, err := account.CreateUser(&account.UserCreation{Name: "test", Secret: "123456"}, sec)
			Expect(err).To(Equal(bizerror.ErrForbidden))
			Expect(u).To(BeNil())
		})

		It("should create user with a primary assignment of the default role", func() {
			sec := testinfra.BuildSession(1, "admin", authority.RoleSuperAdmin)
			u, err := account.CreateUser(&account.UserCreation{Name: "test", Secret: "123456"}, sec)
			Expect(err).To(BeNil())
			Expect(u.Name).To(Equal("test"))
			Expect(u.Enabled).To(BeTrue())

			assignments, validation, err := account.QueryUserRoles(u.ID, sec)
			Expect(err).To(BeNil())
			Expect(len(assignments)).To(Equal(1))
			Expect(assignments[0].Role).To(Equal(authority.RoleViewer))
			Expect(assignments[0].IsPrimary).To(BeTrue())
			Expect(assignments[0].IsActive).To(BeTrue())
			Expect(validation.IsValid).To(BeTrue())
		})

		It("should refuse roles above the caller's reach", func() {
			sec := testinfra.BuildSession(1, "manager", authority.RoleHrManager)
			u, err := account.CreateUser(&account.UserCreation{Name: "test", Secret: "123456",
				Role: authority.RoleSuperAdmin}, sec)
			Expect(err).To(Equal(bizerror.ErrForbidden))
			Expect(u).To(BeNil())
		})
	})

	Describe("AssignRole", func() {
		It("should refuse duplicated active role", func() {
			sec := testinfra.BuildSession(1, "admin", authority.RoleSuperAdmin)
			u, err := account.CreateUser(&account.UserCreation{Name: "test", Secret: "123456",
				Role: authority.RoleRecruiter}, sec)
			Expect(err).To(BeNil())

			a, err := account.AssignRole(u.ID, &account.RoleAssigning{Role: authority.RoleRecruiter}, sec)
			Expect(err).To(Equal(bizerror.ErrRoleDuplicated))
			Expect(a).To(BeNil())
		})

		It("should keep at most one active primary across assignments", func() {
			sec := testinfra.BuildSession(1, "admin", authority.RoleSuperAdmin)
			u, err := account.CreateUser(&account.UserCreation{Name: "test", Secret: "123456",
				Role: authority.RoleRecruiter}, sec)
			Expect(err).To(BeNil())

			second, err := account.AssignRole(u.ID, &account.RoleAssigning{Role: authority.RoleContentEditor}, sec)
			Expect(err).To(BeNil())
			Expect(second.IsPrimary).To(BeFalse())

			assignments, validation, err := account.QueryUserRoles(u.ID, sec)
			Expect(err).To(BeNil())
			Expect(len(assignments)).To(Equal(2))
			Expect(validation.IsValid).To(BeTrue())
		})

		It("should accept expired duplicate by treating it as inactive", func() {
			sec := testinfra.BuildSession(1, "admin", authority.RoleSuperAdmin)
			u, err := account.CreateUser(&account.UserCreation{Name: "test", Secret: "123456",
				Role: authority.RoleRecruiter}, sec)
			Expect(err).To(BeNil())

			expired := time.Now().Add(-time.Hour)
			first, err := account.AssignRole(u.ID, &account.RoleAssigning{Role: authority.RoleViewer, ExpiresAt: &expired}, sec)
			Expect(err).To(BeNil())
			Expect(first).ToNot(BeNil())

			again, err := account.AssignRole(u.ID, &account.RoleAssigning{Role: authority.RoleViewer}, sec)
			Expect(err).To(BeNil())
			Expect(again).ToNot(BeNil())
		})
	})

	Describe("RemoveRole", func() {
		It("should refuse to remove the last active role", func() {
			sec := testinfra.BuildSession(1, "admin", authority.RoleSuperAdmin)
			u, err := account.CreateUser(&account.UserCreation{Name: "test", Secret: "123456",
				Role: authority.RoleRecruiter}, sec)
			Expect(err).To(BeNil())

			Expect(account.RemoveRole(u.ID, authority.RoleRecruiter, sec)).To(Equal(bizerror.ErrLastRole))
		})

		It("should refuse to remove a role the user does not hold", func() {
			sec := testinfra.BuildSession(1, "admin", authority.RoleSuperAdmin)
			u, err := account.CreateUser(&account.UserCreation{Name: "test", Secret: "123456",
				Role: authority.RoleRecruiter}, sec)
			Expect(err).To(BeNil())

			Expect(account.RemoveRole(u.ID, authority.RoleViewer, sec)).To(Equal(bizerror.ErrRoleNotAssigned))
		})

		It("should deactivate instead of delete and promote the next-oldest active assignment", func() {
			sec := testinfra.BuildSession(1, "admin", authority.RoleSuperAdmin)
			u, err := account.CreateUser(&account.UserCreation{Name: "test", Secret: "123456",
				Role: authority.RoleRecruiter}, sec)
			Expect(err).To(BeNil())

			time.Sleep(2 * time.Millisecond)
			_, err = account.AssignRole(u.ID, &account.RoleAssigning{Role: authority.RoleContentEditor}, sec)
			Expect(err).To(BeNil())
			time.Sleep(2 * time.Millisecond)
			_, err = account.AssignRole(u.ID, &account.RoleAssigning{Role: authority.RoleViewer}, sec)
			Expect(err).To(BeNil())

			Expect(account.RemoveRole(u.ID, authority.RoleRecruiter, sec)).To(BeNil())

			assignments, validation, err := account.QueryUserRoles(u.ID, sec)
			Expect(err).To(BeNil())
			Expect(validation.IsValid).To(BeTrue())

			byRole := map[authority.Role]account.UserRoleAssignment{}
			for _, a := range assignments {
				byRole[a.Role] = a
			}
			// the removed assignment stays on record, deactivated
			Expect(byRole[authority.RoleRecruiter].IsActive).To(BeFalse())
			Expect(byRole[authority.RoleRecruiter].IsPrimary).To(BeFalse())
			// the next-oldest active assignment takes over as primary
			Expect(byRole[authority.RoleContentEditor].IsActive).To(BeTrue())
			Expect(byRole[authority.RoleContentEditor].IsPrimary).To(BeTrue())
			Expect(byRole[authority.RoleViewer].IsPrimary).To(BeFalse())
		})
	})

	Describe("UpdateBasicAuthSecret", func() {
		It("should be able to update basic auth secret correctly", func() {
			sec := testinfra.BuildSession(1, "admin", authority.RoleSuperAdmin)
			db := testDatabase.DS.GormDB(context.Background())
			Expect(db.Save(&account.User{ID: 1, Name: "admin", Secret: account.HashSha256("123456"), Enabled: true}).Error).To(BeNil())

			Expect(account.UpdateBasicAuthSecret(&account.BasicAuthUpdating{
				OriginalSecret: "234567", NewSecret: "654321"}, sec)).To(Equal(bizerror.ErrInvalidPassword))
			Expect(account.UpdateBasicAuthSecret(&account.BasicAuthUpdating{
				OriginalSecret: "123456", NewSecret: "654321"}, sec)).To(BeNil())

			user := account.User{}
			Expect(db.Model(&account.User{}).Where(&account.User{ID: 1}).First(&user).Error).To(BeNil())
			Expect(user.Secret).To(Equal(account.HashSha256("654321")))
		})
	})

	Describe("LoadPrincipal", func() {
		It("should map user and assignments into a principal", func() {
			sec := testinfra.BuildSession(1, "admin", authority.RoleSuperAdmin)
			u, err := account.CreateUser(&account.UserCreation{Name: "test", Secret: "123456",
				Role: authority.RoleHrManager}, sec)
			Expect(err).To(BeNil())

			db := testDatabase.DS.GormDB(context.Background())
			principal, err := account.LoadPrincipal(db, u.ID)
			Expect(err).To(BeNil())
			Expect(principal.ID).To(Equal(u.ID))
			Expect(principal.Active).To(BeTrue())
			Expect(authority.PrimaryRole(principal)).To(Equal(authority.RoleHrManager))
			Expect(authority.AccessLevelOf(principal)).To(Equal(authority.AccessAdmin))
		})
	})
})
