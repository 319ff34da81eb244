package handlers

import (
	"github.com/nicflores/user-manager-api/internal/api/generated"
	"github.com/nicflores/user-manager-api/internal/domain/model"
	"github.com/nicflores/user-manager-api/internal/service"
)

// --- модель → API ---

func clientToAPI(c *model.Client) generated.Client {
	return generated.Client{
		Id:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Bucket:    c.Bucket,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func clientListToAPI(items []*model.Client) generated.ClientList {
	out := generated.ClientList{Items: make([]generated.Client, 0, len(items)), Total: len(items)}
	for _, c := range items {
		out.Items = append(out.Items, clientToAPI(c))
	}
	return out
}

// vendorToAPI — вендор без секретов: только признаки их наличия.
func vendorToAPI(v *model.VendorOverview) generated.Vendor {
	return generated.Vendor{
		Id:          v.ID,
		ClientId:    v.ClientID,
		Name:        v.Name,
		Host:        v.Host,
		Port:        v.Port,
		Username:    v.Username,
		HasPassword: v.HasPassword,
		HasSshKey:   v.HasSSHKey,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func vendorListToAPI(items []*model.VendorOverview) generated.VendorList {
	out := generated.VendorList{Items: make([]generated.Vendor, 0, len(items)), Total: len(items)}
	for _, v := range items {
		out.Items = append(out.Items, vendorToAPI(v))
	}
	return out
}

func sftpToAPI(s *model.SFTPOverview) generated.SftpCredential {
	return generated.SftpCredential{
		Id:          s.ID,
		ClientId:    s.ClientID,
		Username:    s.Username,
		BucketName:  s.BucketName,
		RoleArn:     s.RoleARN,
		Fingerprint: s.Fingerprint,
		KeyVersion:  s.KeyVersion,
		RotatedAt:   s.RotatedAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func sftpListToAPI(items []*model.SFTPOverview) generated.SftpList {
	out := generated.SftpList{Items: make([]generated.SftpCredential, 0, len(items)), Total: len(items)}
	for _, s := range items {
		out.Items = append(out.Items, sftpToAPI(s))
	}
	return out
}

func provisionedToAPI(p *service.ProvisionedCredential) generated.SftpProvisioned {
	return generated.SftpProvisioned{
		Id:          p.ID,
		ClientId:    p.ClientID,
		Username:    p.Username,
		BucketName:  p.BucketName,
		RoleArn:     p.RoleARN,
		PrivateKey:  p.PrivateKey,
		PublicKey:   p.PublicKey,
		Fingerprint: p.Fingerprint,
		KeyVersion:  p.KeyVersion,
	}
}

func rotatedToAPI(r *service.RotatedKeys) generated.SftpRotated {
	return generated.SftpRotated{
		ClientId:    r.ClientID,
		PrivateKey:  r.PrivateKey,
		PublicKey:   r.PublicKey,
		Fingerprint: r.Fingerprint,
		KeyVersion:  r.KeyVersion,
		RotatedAt:   r.RotatedAt,
	}
}

func agentToAPI(a *model.Agent) generated.Agent {
	return generated.Agent{
		Id:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func agentListToAPI(items []*model.Agent) generated.AgentList {
	out := generated.AgentList{Items: make([]generated.Agent, 0, len(items)), Total: len(items)}
	for _, a := range items {
		out.Items = append(out.Items, agentToAPI(a))
	}
	return out
}

// --- API → входные данные сервисов ---

func clientInput(in generated.ClientInput) service.ClientInput {
	return service.ClientInput{Name: in.Name, Email: in.Email, Bucket: in.Bucket}
}

func vendorInput(in generated.VendorInput) service.VendorInput {
	return service.VendorInput{
		Name:           in.Name,
		Host:           in.Host,
		Port:           in.Port,
		Username:       in.Username,
		Password:       in.Password,
		SSHKey:         in.SshKey,
		SSHKeyPassword: in.SshKeyPassword,
	}
}

func agentInput(in generated.AgentInput) service.AgentInput {
	return service.AgentInput{Name: in.Name, Email: in.Email}
}
