package sqlinline

const QUpdateProfileByEmail = `--sql 87a50067-6360-443c-88e4-d5ea96a65c69
update profiles
set role = $2::text,
    full_name = $3::text,
    phone = coalesce(nullif($4::text, ''), phone),
    updated_at = now()
where email = $1::text;
`

const QUpsertProfile = `--sql 1634f68e-abf7-43f0-ae60-c38e9381a56c
insert into profiles (id, email, full_name, role, phone, created_at, updated_at)
values ($1::uuid, $2::text, $3::text, $4::text, nullif($5::text, ''), now(), now())
on conflict (id) do update set
    email = excluded.email,
    full_name = excluded.full_name,
    role = excluded.role,
    phone = coalesce(excluded.phone, profiles.phone),
    updated_at = now();
`

const QSelectProfileIDByEmail = `--sql 468099cb-87bf-47eb-8ab4-ad7128933866
select id::text
from profiles
where email = $1::text
limit 1;
`
